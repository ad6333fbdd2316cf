// Package diag formats compiler and runtime diagnostics with source
// context, adapted from the teacher's internal/errors package
// (CompilerError / FormatErrors / caret rendering).
package diag

import (
	"fmt"
	"strings"

	"github.com/jchitel/renlang-sub002/internal/token"
)

// Diagnostic is a single compile-time error with position and source context.
type Diagnostic struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a Diagnostic.
func New(pos token.Position, message, source, file string) *Diagnostic {
	return &Diagnostic{Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders "<message> [<path>:<line>:<column>]" per spec.md §7,
// plus (when color is requested) a source line with a caret pointing
// at the column.
func (d *Diagnostic) Format(color bool) string {
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Pos.Line, d.Pos.Column)
	header := fmt.Sprintf("%s [%s]", d.Message, loc)
	if !color {
		return header
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+d.Pos.Column-1))
		sb.WriteString("\033[1;31m^\033[0m\n")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll joins a diagnostic list, one per line.
func FormatAll(diags []*Diagnostic, color bool) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Format(color))
	}
	return sb.String()
}

// StackFrame names one entry of an uncaught-exception trace: a
// function name and its declaration (call-site) location.
type StackFrame struct {
	FuncName string
	Pos      token.Position
	File     string
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s (%s:%d:%d)", f.FuncName, f.File, f.Pos.Line, f.Pos.Column)
}

// FormatStackTrace renders an uncaught-exception message followed by
// its call stack, one frame per line, per spec.md §7/§8 scenario 8.
func FormatStackTrace(errString string, frames []StackFrame) string {
	var sb strings.Builder
	sb.WriteString("Uncaught exception: ")
	sb.WriteString(errString)
	sb.WriteString("\n")
	for _, f := range frames {
		sb.WriteString("  at ")
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
