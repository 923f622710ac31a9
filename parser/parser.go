// Package parser turns a token stream into a scope-owning AST using
// precedence-climbing (Pratt) expression parsing and recursive-descent
// statement parsing, with panic-mode error recovery.
//
// Grounded on original_source/src/parser.cpp's m_parse_precedence table
// and m_relax synchronization set, adapted to Go the way lang/yparse
// dispatches per token kind: a fixed-size array of closures indexed by
// token.Kind rather than a function-pointer table.
package parser

import (
	"github.com/rougher0/golox/ast"
	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/token"
	"github.com/rougher0/golox/types"
)

// Precedence orders binding strength from loosest to tightest, per
// spec.md §4.2: NONE < ASSIGNMENT < OR < AND < EQUALITY < COMPARISON <
// TERM < FACTOR < UNARY < CALL < PRIMARY.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type prefixFn func(p *Parser, tok token.Token) ast.Expr
type infixFn func(p *Parser, tok token.Token, left ast.Expr) ast.Expr

type prattEntry struct {
	prefix     prefixFn
	infix      infixFn
	precedence Precedence
}

var rules [token.End + 1]prattEntry

func init() {
	rules[token.LeftParen] = prattEntry{prefix: grouping}

	rules[token.Minus] = prattEntry{prefix: unaryNegate, infix: binaryTerm, precedence: PrecTerm}
	rules[token.Plus] = prattEntry{infix: binaryTerm, precedence: PrecTerm}
	rules[token.Star] = prattEntry{infix: binaryFactor, precedence: PrecFactor}
	rules[token.Slash] = prattEntry{infix: binaryFactor, precedence: PrecFactor}
	rules[token.Percent] = prattEntry{infix: binaryFactor, precedence: PrecFactor}

	rules[token.Bang] = prattEntry{prefix: unaryNot}

	rules[token.Less] = prattEntry{infix: binaryCompare, precedence: PrecComparison}
	rules[token.Greater] = prattEntry{infix: binaryCompare, precedence: PrecComparison}
	rules[token.LessEqual] = prattEntry{infix: binaryCompare, precedence: PrecComparison}
	rules[token.GreaterEqual] = prattEntry{infix: binaryCompare, precedence: PrecComparison}

	rules[token.EqualEqual] = prattEntry{infix: binaryEquality, precedence: PrecEquality}
	rules[token.BangEqual] = prattEntry{infix: binaryEquality, precedence: PrecEquality}

	rules[token.I32] = prattEntry{prefix: numberLiteral}
	rules[token.F64] = prattEntry{prefix: numberLiteral}
	rules[token.F32] = prattEntry{prefix: numberLiteral}
	rules[token.True] = prattEntry{prefix: boolLiteral}
	rules[token.False] = prattEntry{prefix: boolLiteral}
	rules[token.StrLit] = prattEntry{prefix: stringLiteral}
	rules[token.Intrpl] = prattEntry{prefix: stringInterpolation}
	rules[token.Identifier] = prattEntry{prefix: identifier}
}

// Parser holds the token cursor and diagnostic sink for one parse.
type Parser struct {
	tokens    []token.Token
	pos       int
	reporter  diag.Reporter
	hadError  bool
	panicking bool
}

// Parse builds the program's root scope from tokens, reporting every
// syntax error it finds through r and recovering at statement
// boundaries rather than stopping at the first one. The bool result is
// true iff no error was reported.
func Parse(tokens []token.Token, r diag.Reporter) (*ast.Scope, bool) {
	p := &Parser{tokens: tokens, reporter: r}
	root := ast.NewScope(nil, 1)
	for !p.check(token.End) {
		if stmt := p.declaration(root); stmt != nil {
			root.Statements = append(root.Statements, stmt)
		}
	}
	return root, !p.hadError
}

// --- statement grammar ---
//
//	program     → declaration* END
//	declaration → varDecl | statement
//	statement   → block | logStmt
//	block       → '{' declaration* '}'
//	logStmt     → 'log' '(' expression ')' ';'
//	varDecl     → 'let' IDENT (':' typeName)? '=' expression ';'

func (p *Parser) declaration(scope *ast.Scope) ast.Stmt {
	var stmt ast.Stmt
	switch {
	case p.match(token.Let):
		stmt = p.varDecl(scope)
	default:
		stmt = p.statement(scope)
	}
	if p.panicking {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) statement(scope *ast.Scope) ast.Stmt {
	switch {
	case p.match(token.LeftBrace):
		return p.block(scope)
	case p.match(token.Log):
		return p.logStmt()
	default:
		p.errorAt(p.peek(), "Expected statement")
		p.advance()
		return nil
	}
}

func (p *Parser) block(parent *ast.Scope) *ast.Scope {
	line := p.previous().Line
	inner := ast.NewScope(parent, line)
	for !p.check(token.RightBrace) && !p.check(token.End) {
		if stmt := p.declaration(inner); stmt != nil {
			inner.Statements = append(inner.Statements, stmt)
		}
	}
	p.consume(token.RightBrace, "Expected '}' after block")
	return inner
}

func (p *Parser) logStmt() ast.Stmt {
	line := p.previous().Line
	p.consume(token.LeftParen, "Expected '(' after 'log'")
	expr := p.expression()
	p.consume(token.RightParen, "Expected ')' after expression")
	p.consume(token.Semicolon, "Expected ';' after log statement")
	return &ast.Log{Expr: expr, LineNr: line}
}

func (p *Parser) varDecl(scope *ast.Scope) ast.Stmt {
	name := p.consume(token.Identifier, "Expected variable name")
	declared := types.None
	if p.match(token.Colon) {
		declared = p.typeName()
	}
	p.consume(token.Equal, "Expected '=' in variable declaration")
	expr := p.expression()
	p.consume(token.Semicolon, "Expected ';' after variable declaration")
	return &ast.VarDecl{
		Name:         name.Lexeme,
		Expr:         expr,
		ScopeRef:     scope,
		DeclaredType: declared,
		LineNr:       name.Line,
	}
}

func (p *Parser) typeName() types.Tag {
	tok := p.advance()
	switch tok.Kind {
	case token.Bool:
		return types.Bool
	case token.I8:
		return types.I8
	case token.I16:
		return types.I16
	case token.I32:
		return types.I32
	case token.I64:
		return types.I64
	case token.U8:
		return types.U8
	case token.U16:
		return types.U16
	case token.U32:
		return types.U32
	case token.U64:
		return types.U64
	case token.F32:
		return types.F32
	case token.F64:
		return types.F64
	case token.String:
		return types.String
	default:
		p.errorAt(tok, "Expected a type name")
		return types.None
	}
}

// --- expression grammar (precedence climbing) ---

func (p *Parser) expression() ast.Expr {
	return p.parsePrecedence(PrecAssignment)
}

func (p *Parser) parsePrecedence(min Precedence) ast.Expr {
	tok := p.advance()
	prefix := rules[tok.Kind].prefix
	if prefix == nil {
		p.errorAt(tok, "Expected an expression")
		return ast.NewLiteral(tok.Lexeme, tok.Line, types.None)
	}
	left := prefix(p, tok)

	for min <= rules[p.peek().Kind].precedence {
		tok = p.advance()
		infix := rules[tok.Kind].infix
		left = infix(p, tok, left)
	}
	return left
}

func grouping(p *Parser, _ token.Token) ast.Expr {
	expr := p.expression()
	p.consume(token.RightParen, "Expected ')' after expression")
	return expr
}

func unaryNegate(p *Parser, tok token.Token) ast.Expr {
	operand := p.parsePrecedence(PrecUnary)
	return ast.NewNegate(tok.Lexeme, tok.Line, operand)
}

func unaryNot(p *Parser, tok token.Token) ast.Expr {
	operand := p.parsePrecedence(PrecUnary)
	return ast.NewNot(tok.Lexeme, tok.Line, operand)
}

func binaryTerm(p *Parser, tok token.Token, left ast.Expr) ast.Expr {
	right := p.parsePrecedence(PrecTerm + 1)
	if tok.Kind == token.Plus {
		return ast.NewAdd(tok.Lexeme, tok.Line, left, right)
	}
	return ast.NewSub(tok.Lexeme, tok.Line, left, right)
}

func binaryFactor(p *Parser, tok token.Token, left ast.Expr) ast.Expr {
	right := p.parsePrecedence(PrecFactor + 1)
	switch tok.Kind {
	case token.Star:
		return ast.NewMul(tok.Lexeme, tok.Line, left, right)
	case token.Slash:
		return ast.NewDiv(tok.Lexeme, tok.Line, left, right)
	default:
		return ast.NewMod(tok.Lexeme, tok.Line, left, right)
	}
}

// binaryCompare lowers '<=' to not(greater) and '>=' to not(less), per
// original_source/src/parser.cpp: the bytecode only has CMP/CMPE, so the
// two non-strict orderings are parsed as a negation of the strict one.
func binaryCompare(p *Parser, tok token.Token, left ast.Expr) ast.Expr {
	right := p.parsePrecedence(PrecComparison + 1)
	switch tok.Kind {
	case token.Less:
		return ast.NewCompareLess(tok.Lexeme, tok.Line, left, right)
	case token.Greater:
		return ast.NewCompareGreater(tok.Lexeme, tok.Line, left, right)
	case token.LessEqual:
		inner := ast.NewCompareGreater(tok.Lexeme, tok.Line, left, right)
		return ast.NewNot(tok.Lexeme, tok.Line, inner)
	default: // GreaterEqual
		inner := ast.NewCompareLess(tok.Lexeme, tok.Line, left, right)
		return ast.NewNot(tok.Lexeme, tok.Line, inner)
	}
}

// binaryEquality lowers '!=' to not(equal), the same way binaryCompare
// lowers the non-strict orderings.
func binaryEquality(p *Parser, tok token.Token, left ast.Expr) ast.Expr {
	right := p.parsePrecedence(PrecEquality + 1)
	if tok.Kind == token.EqualEqual {
		return ast.NewCompareEqual(tok.Lexeme, tok.Line, left, right)
	}
	inner := ast.NewCompareEqual(tok.Lexeme, tok.Line, left, right)
	return ast.NewNot(tok.Lexeme, tok.Line, inner)
}

func numberLiteral(p *Parser, tok token.Token) ast.Expr {
	var tag types.Tag
	switch tok.Kind {
	case token.I32:
		tag = types.I32
	case token.F64:
		tag = types.F64
	default:
		tag = types.F32
	}
	return ast.NewLiteral(tok.Lexeme, tok.Line, tag)
}

func boolLiteral(p *Parser, tok token.Token) ast.Expr {
	return ast.NewLiteral(tok.Lexeme, tok.Line, types.Bool)
}

func stringLiteral(p *Parser, tok token.Token) ast.Expr {
	return ast.NewLiteral(tok.Lexeme, tok.Line, types.String)
}

// stringInterpolation lowers a flattened INTRPL/.../RIGHT_BRACE/STRING
// token run into a left-associative chain of Add expressions, one per
// literal segment and one per embedded expression, matching the runtime
// string-concatenation contract of spec.md §8 property 2. tok is the
// first INTRPL segment, already consumed by parsePrecedence.
func stringInterpolation(p *Parser, tok token.Token) ast.Expr {
	var result ast.Expr = ast.NewLiteral(tok.Lexeme, tok.Line, types.String)
	for {
		embedded := p.expression()
		result = ast.NewAdd(tok.Lexeme, tok.Line, result, embedded)
		p.consume(token.RightBrace, "Expected '}' to close interpolated expression")

		seg := p.advance()
		segLit := ast.NewLiteral(seg.Lexeme, seg.Line, types.String)
		result = ast.NewAdd(seg.Lexeme, seg.Line, result, segLit)
		if seg.Kind == token.StrLit {
			return result
		}
		if seg.Kind != token.Intrpl {
			p.errorAt(seg, "Malformed interpolated string")
			return result
		}
	}
}

func identifier(p *Parser, tok token.Token) ast.Expr {
	return ast.NewIdent(tok.Lexeme, tok.Line)
}

// --- cursor + error helpers ---

func (p *Parser) peek() token.Token     { return p.tokens[p.pos] }
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != token.End {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(kind token.Kind, msg string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), msg)
	return p.peek()
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.hadError = true
	p.reporter.Report(tok.Line, tok.Lexeme, msg)
}

// synchronize discards tokens until it reaches a likely statement
// boundary, matching original_source/src/parser.cpp's m_relax set:
// resume just after a consumed ';', or just before one of the keywords
// that can start a new declaration or statement.
func (p *Parser) synchronize() {
	p.panicking = false
	for !p.check(token.End) {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Let, token.For, token.If, token.While, token.Log:
			return
		}
		p.advance()
	}
}
