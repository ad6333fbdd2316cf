package instr

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of instrs to w, one line
// per instruction, grounded on the teacher's internal/bytecode
// Disassembler.Disassemble (offset-prefixed opcode + operand dump).
func Disassemble(w io.Writer, name string, instrs []Instruction) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset, in := range instrs {
		fmt.Fprintf(w, "%04d %s\n", offset, DescribeInstruction(in))
	}
}

// DescribeInstruction renders one instruction's opcode and the operand
// fields relevant to it.
func DescribeInstruction(in Instruction) string {
	switch in.Op {
	case SetInteger, SetFloat, SetChar, SetString:
		return fmt.Sprintf("%-16s dst=r%d %q", in.Op, in.Dst, in.UnaryKind)
	case SetBool:
		return fmt.Sprintf("%-16s dst=r%d %d", in.Op, in.Dst, in.Index)
	case SetArray, SetTuple:
		return fmt.Sprintf("%-16s dst=r%d elems=%v", in.Op, in.Dst, in.Elems)
	case SetStruct:
		return fmt.Sprintf("%-16s dst=r%d fields=%v elems=%v", in.Op, in.Dst, in.Fields, in.Elems)
	case SetFunction:
		return fmt.Sprintf("%-16s dst=r%d func=#%d", in.Op, in.Dst, in.Func)
	case ParamRef:
		return fmt.Sprintf("%-16s dst=r%d index=%d", in.Op, in.Dst, in.Index)
	case ErrorRef:
		return fmt.Sprintf("%-16s dst=r%d", in.Op, in.Dst)
	case UnaryOp:
		return fmt.Sprintf("%-16s dst=r%d %s src=r%d", in.Op, in.Dst, in.UnaryKind, in.Src)
	case BinaryOp:
		return fmt.Sprintf("%-16s dst=r%d left=r%d %s right=r%d", in.Op, in.Dst, in.Left, in.BinaryKind, in.Right)
	case FieldAccess:
		return fmt.Sprintf("%-16s dst=r%d src=r%d field=%s", in.Op, in.Dst, in.Src, in.Field)
	case ArrayAccess:
		return fmt.Sprintf("%-16s dst=r%d src=r%d index=r%d", in.Op, in.Dst, in.Src, in.IndexRef)
	case ConstRef:
		return fmt.Sprintf("%-16s dst=r%d const=#%d", in.Op, in.Dst, in.Const)
	case CopyRef, MutateRef:
		return fmt.Sprintf("%-16s dst=r%d src=r%d", in.Op, in.Dst, in.Src)
	case InteropRef:
		return fmt.Sprintf("%-16s dst=r%d kind=%s elems=%v", in.Op, in.Dst, in.Kind, in.Elems)
	case Call:
		return fmt.Sprintf("%-16s dst=r%d src=r%d args=%v", in.Op, in.Dst, in.Src, in.Elems)
	case PushScopeFrame:
		return in.Op.String()
	case PushLoopFrame:
		return fmt.Sprintf("%-16s start=%d end=%d", in.Op, in.Start, in.End)
	case PushTryFrame:
		return fmt.Sprintf("%-16s catches=%d finally=%v", in.Op, len(in.Catches), in.Finally)
	case PopFrame:
		return in.Op.String()
	case AddToScope:
		return fmt.Sprintf("%-16s name=%s src=r%d", in.Op, in.Name, in.Src)
	case FalseBranch, TrueBranch:
		return fmt.Sprintf("%-16s src=r%d target=%d", in.Op, in.Src, in.Target)
	case Jump:
		return fmt.Sprintf("%-16s target=%d", in.Op, in.Target)
	case ConstBranch:
		return fmt.Sprintf("%-16s const=#%d target=%d", in.Op, in.Const, in.Target)
	case Return:
		return fmt.Sprintf("%-16s src=r%d", in.Op, in.Src)
	case Throw:
		return fmt.Sprintf("%-16s src=r%d", in.Op, in.Src)
	case Break, Continue:
		return fmt.Sprintf("%-16s n=%d", in.Op, in.N)
	case ConstSet:
		return fmt.Sprintf("%-16s const=#%d src=r%d", in.Op, in.Const, in.Src)
	case Noop:
		return in.Op.String()
	default:
		return in.Op.String()
	}
}
