package cst

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/lexer"
	"github.com/jchitel/renlang-sub002/internal/token"
)

// Parser is a recursive-descent / Pratt parser over a token stream; it
// builds the CST defined in this package but performs no precedence
// folding of its own — binary-operator chains are emitted flat as
// OpChain nodes for internal/ast.Reduce to fold.
type Parser struct {
	l *lexer.Lexer

	cur   token.Token
	peek  token.Token
	peek2 token.Token

	errs []string
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	p.next()
	return p
}

// Errors returns the accumulated parse error messages, each already
// formatted with its source position.
func (p *Parser) Errors() []string { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.l.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errs = append(p.errs, fmt.Sprintf("%s [%d:%d]", msg, pos.Line, pos.Column))
}

func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errorf(p.cur.Pos, "expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)
		return p.cur
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

// ParseProgram parses an entire compilation unit.
func (p *Parser) ParseProgram() *Program {
	start := p.cur.Pos
	prog := &Program{base: base{Start: start}}
	for !p.at(token.EOF) {
		d := p.parseTopLevelDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		} else {
			p.next() // avoid infinite loop on unrecoverable token
		}
	}
	prog.End = p.cur.Pos
	return prog
}

func (p *Parser) parseTopLevelDecl() Node {
	switch p.cur.Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.FUNC:
		return p.parseFuncDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	case token.CONST:
		return p.parseConstDecl()
	case token.NAMESPACE:
		return p.parseNamespaceDecl()
	default:
		p.errorf(p.cur.Pos, "unexpected token %s at top level", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseImport() Node {
	start := p.cur.Pos
	p.next() // import
	p.expect(token.FROM)
	modPos := p.cur.Pos
	modPath := p.expect(token.STRING).Literal

	decl := &ImportDecl{base: base{Start: start}, ModulePath: modPath, ModulePos: modPos}
	if p.at(token.COLON) {
		p.next()
		decl.WholeAlias = p.expect(token.IDENT).Literal
	} else if p.at(token.LBRACE) {
		p.next()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			name := p.expect(token.IDENT).Literal
			spec := ImportSpec{Exported: name, LocalAlias: name}
			if p.at(token.AS) {
				p.next()
				spec.LocalAlias = p.expect(token.IDENT).Literal
			}
			decl.Specs = append(decl.Specs, spec)
			if p.at(token.COMMA) {
				p.next()
			} else {
				break
			}
		}
		p.expect(token.RBRACE)
	} else {
		p.errorf(p.cur.Pos, "expected ':' or '{' after import path")
	}
	decl.End = p.cur.Pos
	return decl
}

func (p *Parser) parseExport() Node {
	start := p.cur.Pos
	p.next() // export
	decl := &ExportDecl{base: base{Start: start}}
	if p.at(token.DEFAULT) {
		p.next()
		decl.Default = true
		decl.Inline = p.parseExpression(0)
		decl.End = p.cur.Pos
		return decl
	}

	switch p.cur.Kind {
	case token.FUNC:
		decl.Inline = p.parseFuncDecl()
		if fd, ok := decl.Inline.(*FuncDecl); ok {
			decl.Name = fd.Name
		}
	case token.TYPE:
		decl.Inline = p.parseTypeDecl()
		if td, ok := decl.Inline.(*TypeDecl); ok {
			decl.Name = td.Name
		}
	case token.CONST:
		decl.Inline = p.parseConstDecl()
		if cd, ok := decl.Inline.(*ConstDecl); ok {
			decl.Name = cd.Name
		}
	default:
		decl.Name = p.expect(token.IDENT).Literal
		p.expect(token.ASSIGN)
		decl.RefName = p.expect(token.IDENT).Literal
	}
	decl.End = p.cur.Pos
	return decl
}

func (p *Parser) parseNamespaceDecl() Node {
	start := p.cur.Pos
	p.next()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LBRACE)
	ns := &NamespaceDecl{base: base{Start: start}, Name: name}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		d := p.parseTopLevelDecl()
		if d != nil {
			ns.Decls = append(ns.Decls, d)
		} else {
			p.next()
		}
	}
	ns.End = p.expect(token.RBRACE).Pos
	return ns
}

func (p *Parser) parseTypeParams() []*TypeParam {
	if !p.at(token.LT) {
		return nil
	}
	p.next()
	var out []*TypeParam
	for !p.at(token.GT) && !p.at(token.EOF) {
		start := p.cur.Pos
		tp := &TypeParam{base: base{Start: start}}
		if p.at(token.PLUS) {
			tp.Variance = Covariant
			p.next()
		} else if p.at(token.MINUS) {
			tp.Variance = Contravariant
			p.next()
		}
		tp.Name = p.expect(token.IDENT).Literal
		if p.at(token.COLON) {
			p.next()
			tp.Constraint = p.parseType()
		}
		tp.End = p.cur.Pos
		out = append(out, tp)
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.GT)
	return out
}

func (p *Parser) parseParams() []*Param {
	p.expect(token.LPAREN)
	var out []*Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		start := p.cur.Pos
		typ := p.parseType()
		name := p.expect(token.IDENT).Literal
		out = append(out, &Param{base: base{Start: start, End: p.cur.Pos}, Name: name, Type: typ})
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return out
}

func (p *Parser) parseFuncDecl() *FuncDecl {
	start := p.cur.Pos
	p.next() // func
	fd := &FuncDecl{base: base{Start: start}}
	fd.ReturnType = p.parseType()
	fd.Name = p.expect(token.IDENT).Literal
	fd.TypeParams = p.parseTypeParams()
	fd.Params = p.parseParams()
	if p.at(token.ARROW) {
		p.next()
		// `=> { name: ...` is a struct literal; any other `=> {` opens a
		// block body.
		if p.at(token.LBRACE) && !(p.peek.Kind == token.IDENT && p.peek2.Kind == token.COLON) {
			fd.Body = p.parseBlock()
		} else {
			fd.Body = p.parseExpression(0)
		}
	} else {
		fd.Body = p.parseBlock()
	}
	fd.End = p.cur.Pos
	return fd
}

func (p *Parser) parseTypeDecl() *TypeDecl {
	start := p.cur.Pos
	p.next() // type
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	typ := p.parseType()
	return &TypeDecl{base: base{Start: start, End: p.cur.Pos}, Name: name, Type: typ}
}

func (p *Parser) parseConstDecl() *ConstDecl {
	start := p.cur.Pos
	p.next() // const
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	expr := p.parseExpression(0)
	return &ConstDecl{base: base{Start: start, End: p.cur.Pos}, Name: name, Expr: expr}
}

// ---- Types ----

func (p *Parser) parseType() Node {
	typ := p.parseAtomType()
	for p.at(token.LBRACKET) {
		start := p.cur.Pos
		p.next()
		p.expect(token.RBRACKET)
		typ = &ArrayTypeNode{base: base{Start: start, End: p.cur.Pos}, Elem: typ}
	}
	if p.at(token.PIPE) {
		start := typ.Range().Start
		members := []Node{typ}
		for p.at(token.PIPE) {
			p.next()
			members = append(members, p.parseType())
		}
		typ = &UnionTypeNode{base: base{Start: start, End: p.cur.Pos}, Members: members}
	}
	return typ
}

var primitiveNames = map[string]bool{
	"u8": true, "byte": true, "i8": true, "u16": true, "short": true, "i16": true,
	"u32": true, "i32": true, "integer": true, "u64": true, "i64": true, "long": true,
	"int": true, "f32": true, "float": true, "f64": true, "double": true, "char": true,
	"string": true, "bool": true, "void": true, "any": true,
}

func (p *Parser) parseAtomType() Node {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.LPAREN:
		return p.parseParenOrFuncOrTupleType()
	case token.LBRACE:
		return p.parseStructType()
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		var typ Node
		if primitiveNames[name] {
			typ = &PrimitiveType{base: base{Start: start, End: p.cur.Pos}, Name: name}
		} else {
			typ = &IdentType{base: base{Start: start, End: p.cur.Pos}, Name: name}
		}
		for p.at(token.DOT) {
			p.next()
			field := p.expect(token.IDENT).Literal
			typ = &NamespaceAccessType{base: base{Start: start, End: p.cur.Pos}, Namespace: typ, Name: field}
		}
		if p.at(token.LT) {
			p.next()
			var args []Node
			for !p.at(token.GT) && !p.at(token.EOF) {
				args = append(args, p.parseType())
				if p.at(token.COMMA) {
					p.next()
				} else {
					break
				}
			}
			p.expect(token.GT)
			typ = &SpecificType{base: base{Start: start, End: p.cur.Pos}, Generic: typ, Args: args}
		}
		return typ
	default:
		p.errorf(p.cur.Pos, "expected type, got %s %q", p.cur.Kind, p.cur.Literal)
		tok := p.cur
		p.next()
		return &IdentType{base: base{Start: tok.Pos, End: p.cur.Pos}, Name: tok.Literal}
	}
}

// parseParenOrFuncOrTupleType disambiguates `(T)` (parenthesized type),
// `(T1, T2)` (tuple), and `(P1, P2) => R` (function type).
func (p *Parser) parseParenOrFuncOrTupleType() Node {
	start := p.cur.Pos
	p.next() // (
	var elems []Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		elems = append(elems, p.parseType())
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	if p.at(token.ARROW) {
		p.next()
		ret := p.parseType()
		return &FuncType{base: base{Start: start, End: p.cur.Pos}, Params: elems, Return: ret}
	}
	if len(elems) == 1 {
		return &ParenType{base: base{Start: start, End: p.cur.Pos}, Inner: elems[0]}
	}
	return &TupleType{base: base{Start: start, End: p.cur.Pos}, Elems: elems}
}

func (p *Parser) parseStructType() Node {
	start := p.cur.Pos
	p.next() // {
	st := &StructTypeNode{base: base{Start: start}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		typ := p.parseType()
		name := p.expect(token.IDENT).Literal
		st.Fields = append(st.Fields, StructField{Name: name, Type: typ})
		if p.at(token.SEMI) {
			p.next()
		} else if !p.at(token.RBRACE) {
			break
		}
	}
	st.End = p.expect(token.RBRACE).Pos
	return st
}

// ---- Statements ----

func (p *Parser) parseBlock() *Block {
	start := p.expect(token.LBRACE).Pos
	b := &Block{base: base{Start: start}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		b.Stmts = append(b.Stmts, p.parseStatement())
	}
	b.End = p.expect(token.RBRACE).Pos
	return b
}

func (p *Parser) parseStatement() Node {
	switch p.cur.Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.TRY:
		return p.parseTry()
	case token.THROW:
		return p.parseThrow()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.SEMI:
		start := p.cur.Pos
		p.next()
		return &ExprStmt{base: base{Start: start, End: start}}
	default:
		start := p.cur.Pos
		expr := p.parseExpression(0)
		if p.at(token.SEMI) {
			p.next()
		}
		return &ExprStmt{base: base{Start: start, End: p.cur.Pos}, Expr: expr}
	}
}

func (p *Parser) parseFor() Node {
	start := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	name := p.expect(token.IDENT).Literal
	p.expect(token.IN)
	iter := p.parseExpression(0)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ForStmt{base: base{Start: start, End: p.cur.Pos}, Var: name, Iter: iter, Body: body}
}

func (p *Parser) parseWhile() Node {
	start := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpression(0)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &WhileStmt{base: base{Start: start, End: p.cur.Pos}, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() Node {
	start := p.cur.Pos
	p.next()
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression(0)
	p.expect(token.RPAREN)
	if p.at(token.SEMI) {
		p.next()
	}
	return &DoWhileStmt{base: base{Start: start, End: p.cur.Pos}, Body: body, Cond: cond}
}

func (p *Parser) parseTry() Node {
	start := p.cur.Pos
	p.next()
	tryBody := p.parseBlock()
	ts := &TryStmt{base: base{Start: start}, Try: tryBody}
	for p.at(token.CATCH) {
		p.next()
		p.expect(token.LPAREN)
		typ := p.parseType()
		name := p.expect(token.IDENT).Literal
		p.expect(token.RPAREN)
		body := p.parseBlock()
		ts.Catches = append(ts.Catches, CatchClause{ParamName: name, ParamType: typ, Body: body})
	}
	if p.at(token.FINALLY) {
		p.next()
		ts.Finally = p.parseBlock()
	}
	ts.End = p.cur.Pos
	return ts
}

func (p *Parser) parseThrow() Node {
	start := p.cur.Pos
	p.next()
	expr := p.parseExpression(0)
	if p.at(token.SEMI) {
		p.next()
	}
	return &ThrowStmt{base: base{Start: start, End: p.cur.Pos}, Expr: expr}
}

func (p *Parser) parseReturn() Node {
	start := p.cur.Pos
	p.next()
	rs := &ReturnStmt{base: base{Start: start}}
	if !p.at(token.SEMI) && !p.at(token.RBRACE) {
		rs.Expr = p.parseExpression(0)
	}
	if p.at(token.SEMI) {
		p.next()
	}
	rs.End = p.cur.Pos
	return rs
}

func (p *Parser) parseBreak() Node {
	start := p.cur.Pos
	p.next()
	n := 0
	if p.at(token.INT) {
		n = parseIntLiteral(p.cur.Literal)
		p.next()
	}
	if p.at(token.SEMI) {
		p.next()
	}
	return &BreakStmt{base: base{Start: start, End: p.cur.Pos}, N: n}
}

func (p *Parser) parseContinue() Node {
	start := p.cur.Pos
	p.next()
	n := 0
	if p.at(token.INT) {
		n = parseIntLiteral(p.cur.Literal)
		p.next()
	}
	if p.at(token.SEMI) {
		p.next()
	}
	return &ContinueStmt{base: base{Start: start, End: p.cur.Pos}, N: n}
}

func parseIntLiteral(lit string) int {
	n := 0
	for _, c := range lit {
		n = n*10 + int(c-'0')
	}
	return n
}

// ---- Expressions ----
//
// parseExpression parses a (possibly flat) binary-operator chain:
// precedence folding is left entirely to internal/ast.Reduce, so this
// parser only needs to recognize "is this token a binary operator" via
// lookupOp, not rank them.
func (p *Parser) parseExpression(minPrec int) Node {
	_ = minPrec
	first := p.parseUnary()
	chain := &OpChain{base: base{Start: first.Range().Start}, First: first}
	for {
		if _, ok := lookupOp(p.cur.Kind); !ok {
			break
		}
		op := p.cur.Kind
		opPos := p.cur.Pos
		p.next()
		operand := p.parseUnary()
		chain.Rest = append(chain.Rest, OpChainElem{Op: op, OpPos: opPos, Operand: operand})
	}
	if len(chain.Rest) == 0 {
		return first
	}
	chain.End = p.cur.Pos
	return chain
}

var prefixOps = map[token.Kind]bool{
	token.MINUS: true, token.BANG: true, token.TILDE: true,
	token.INCREMENT: true, token.DECREMENT: true,
}

func (p *Parser) parseUnary() Node {
	if prefixOps[p.cur.Kind] {
		start := p.cur.Pos
		op := p.cur.Kind
		p.next()
		operand := p.parseUnary()
		return &UnaryExpr{base: base{Start: start, End: p.cur.Pos}, Op: op, Operand: operand}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(expr Node) Node {
	for {
		switch p.cur.Kind {
		case token.DOT:
			p.next()
			field := p.expect(token.IDENT).Literal
			expr = &FieldAccessExpr{base: base{Start: expr.Range().Start, End: p.cur.Pos}, Receiver: expr, Field: field}
		case token.LBRACKET:
			p.next()
			idx := p.parseExpression(0)
			p.expect(token.RBRACKET)
			expr = &IndexExpr{base: base{Start: expr.Range().Start, End: p.cur.Pos}, Receiver: expr, Index: idx}
		case token.LPAREN:
			expr = p.parseCall(expr, nil)
		case token.INCREMENT, token.DECREMENT:
			op := p.cur.Kind
			p.next()
			expr = &UnaryExpr{base: base{Start: expr.Range().Start, End: p.cur.Pos}, Op: op, Operand: expr, Postfix: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCall(callee Node, typeArgs []Node) Node {
	start := callee.Range().Start
	p.next() // (
	var args []Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpression(0))
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return &CallExpr{base: base{Start: start, End: p.cur.Pos}, Callee: callee, TypeArgs: typeArgs, Args: args}
}

func (p *Parser) parsePrimary() Node {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.INT:
		lit := p.cur.Literal
		p.next()
		return &IntLit{base: base{Start: start, End: p.cur.Pos}, Literal: lit}
	case token.FLOAT:
		lit := p.cur.Literal
		p.next()
		return &FloatLit{base: base{Start: start, End: p.cur.Pos}, Literal: lit}
	case token.CHAR:
		lit := p.cur.Literal
		p.next()
		r := rune(0)
		for _, c := range lit {
			r = c
			break
		}
		return &CharLit{base: base{Start: start, End: p.cur.Pos}, Value: r}
	case token.STRING:
		lit := p.cur.Literal
		p.next()
		return &StringLit{base: base{Start: start, End: p.cur.Pos}, Value: lit}
	case token.TRUE, token.FALSE:
		v := p.cur.Kind == token.TRUE
		p.next()
		return &BoolLit{base: base{Start: start, End: p.cur.Pos}, Value: v}
	case token.LET:
		p.next()
		name := p.expect(token.IDENT).Literal
		var typ Node
		if p.at(token.COLON) {
			p.next()
			typ = p.parseType()
		}
		p.expect(token.ASSIGN)
		init := p.parseExpression(0)
		return &VarDeclExpr{base: base{Start: start, End: p.cur.Pos}, Name: name, Type: typ, Init: init}
	case token.IF:
		return p.parseIfElse()
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseStructLit()
	case token.LPAREN:
		return p.parseParenOrTupleOrLambda()
	case token.IDENT:
		name := p.cur.Literal
		p.next()
		if p.at(token.ARROW) {
			p.next()
			body := p.parseExpression(0)
			param := &Param{base: base{Start: start, End: start}, Name: name}
			return &Lambda{base: base{Start: start, End: p.cur.Pos}, Params: []*Param{param}, Body: body}
		}
		return &Identifier{base: base{Start: start, End: p.cur.Pos}, Name: name}
	default:
		p.errorf(p.cur.Pos, "unexpected token %s %q in expression", p.cur.Kind, p.cur.Literal)
		tok := p.cur
		p.next()
		return &Identifier{base: base{Start: tok.Pos, End: p.cur.Pos}, Name: tok.Literal}
	}
}

func (p *Parser) parseIfElse() Node {
	start := p.cur.Pos
	p.next()
	p.expect(token.LPAREN)
	cond := p.parseExpression(0)
	p.expect(token.RPAREN)
	then := p.parseExpressionOrBlockAsExpr()
	ie := &IfElseExpr{base: base{Start: start}, Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.next()
		ie.Else = p.parseExpressionOrBlockAsExpr()
	}
	ie.End = p.cur.Pos
	return ie
}

// parseExpressionOrBlockAsExpr allows both `if (c) expr` and
// `if (c) { stmts }` forms; a block is wrapped so the translator can
// lower it uniformly as a statement position.
func (p *Parser) parseExpressionOrBlockAsExpr() Node {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseExpression(0)
}

func (p *Parser) parseArrayLit() Node {
	start := p.cur.Pos
	p.next()
	al := &ArrayLit{base: base{Start: start}}
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		al.Elems = append(al.Elems, p.parseExpression(0))
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	al.End = p.expect(token.RBRACKET).Pos
	return al
}

func (p *Parser) parseStructLit() Node {
	start := p.cur.Pos
	p.next()
	sl := &StructLit{base: base{Start: start}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		expr := p.parseExpression(0)
		sl.Fields = append(sl.Fields, StructFieldLit{Name: name, Expr: expr})
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	sl.End = p.expect(token.RBRACE).Pos
	return sl
}

// parseParenOrTupleOrLambda disambiguates `(expr)`, `(e1, e2, ...)`
// (tuple literal), and `(p1, p2) => expr` (lambda).
func (p *Parser) parseParenOrTupleOrLambda() Node {
	start := p.cur.Pos

	if looksLikeLambdaParams(p) {
		params := p.parseLambdaParamList()
		p.expect(token.ARROW)
		body := p.parseExpression(0)
		return &Lambda{base: base{Start: start, End: p.cur.Pos}, Params: params, Body: body}
	}

	p.next() // (
	var elems []Node
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpression(0))
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)

	if p.at(token.ARROW) {
		p.next()
		body := p.parseExpression(0)
		var params []*Param
		for _, e := range elems {
			if id, ok := e.(*Identifier); ok {
				params = append(params, &Param{base: base{Start: id.Start, End: id.End}, Name: id.Name})
			}
		}
		return &Lambda{base: base{Start: start, End: p.cur.Pos}, Params: params, Body: body}
	}

	if len(elems) == 1 {
		return &ParenExpr{base: base{Start: start, End: p.cur.Pos}, Inner: elems[0]}
	}
	return &TupleLit{base: base{Start: start, End: p.cur.Pos}, Elems: elems}
}

// looksLikeLambdaParams peeks for the `(type name, ...)` shape that
// only a typed lambda parameter list can start with: an identifier
// token immediately followed by another identifier (type then name).
// Primitive type keywords lex as IDENT too, so `(int x) => ...` and
// `(x, y) => ...` are told apart purely by this shape.
func looksLikeLambdaParams(p *Parser) bool {
	return p.cur.Kind == token.LPAREN && p.peek.Kind == token.IDENT && p.peek2.Kind == token.IDENT
}

func (p *Parser) parseLambdaParamList() []*Param {
	p.expect(token.LPAREN)
	var out []*Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		start := p.cur.Pos
		typ := p.parseType()
		name := p.expect(token.IDENT).Literal
		out = append(out, &Param{base: base{Start: start, End: p.cur.Pos}, Name: name, Type: typ})
		if p.at(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return out
}
