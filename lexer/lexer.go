// Package lexer scans golox source text into a token stream, including
// flattened string-interpolation fragments. It never errors out of Scan:
// every failure path produces an ERROR token and scanning continues, per
// spec.md §4.1 ("the lexer never throws").
//
// Grounded on original_source/src/lexer.cpp's single-pass char scan (no
// backtracking) and lang/ylex/lexer.go's peek/peekN/advance helper shape.
package lexer

import (
	"github.com/rougher0/golox/token"
)

// Lexer holds the scan position over one source buffer.
type Lexer struct {
	src    string
	start  int
	curr   int
	line   int
	tokens []token.Token
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{src: source, line: 1}
}

// Scan runs the lexer to completion and returns every token, always
// ending with exactly one END token (spec.md §8 property 1).
func Scan(source string) []token.Token {
	l := New(source)
	return l.scan()
}

func (l *Lexer) scan() []token.Token {
	for !l.isEnd() {
		l.tokens = append(l.tokens, l.scanToken())
	}
	if len(l.tokens) == 0 || l.tokens[len(l.tokens)-1].Kind != token.End {
		l.start = l.curr
		l.tokens = append(l.tokens, l.makeToken(token.End))
	}
	return l.tokens
}

func (l *Lexer) scanToken() token.Token {
	l.skipWhitespace()
	l.start = l.curr

	if l.isEnd() {
		return l.makeToken(token.End)
	}

	c := l.advance()

	if isDigit(c) {
		return l.numberToken()
	}
	if isAlpha(c) {
		return l.identToken()
	}

	switch c {
	case '(':
		return l.makeToken(token.LeftParen)
	case ')':
		return l.makeToken(token.RightParen)
	case '{':
		return l.makeToken(token.LeftBrace)
	case '}':
		return l.makeToken(token.RightBrace)
	case ';':
		return l.makeToken(token.Semicolon)
	case ',':
		return l.makeToken(token.Comma)
	case '.':
		return l.makeToken(token.Dot)
	case '-':
		return l.makeToken(token.Minus)
	case '+':
		return l.makeToken(token.Plus)
	case '/':
		return l.makeToken(token.Slash)
	case '%':
		return l.makeToken(token.Percent)
	case '*':
		return l.makeToken(token.Star)
	case ':':
		return l.makeToken(token.Colon)
	case '!':
		if l.match('=') {
			return l.makeToken(token.BangEqual)
		}
		return l.makeToken(token.Bang)
	case '=':
		if l.match('=') {
			return l.makeToken(token.EqualEqual)
		}
		return l.makeToken(token.Equal)
	case '<':
		if l.match('=') {
			return l.makeToken(token.LessEqual)
		}
		return l.makeToken(token.Less)
	case '>':
		if l.match('=') {
			return l.makeToken(token.GreaterEqual)
		}
		return l.makeToken(token.Greater)
	case '"':
		l.start = l.curr
		return l.stringToken()
	default:
		return l.errToken("Unexpected character token")
	}
}

// stringToken scans the body of a string literal, already positioned
// just past the opening '"'. It flattens interpolation: each segment that
// ends at a "${" is appended directly to l.tokens as an INTRPL token, and
// the final segment up to the closing quote is returned as the STRING
// token, matching the contract in spec.md §4.1.
func (l *Lexer) stringToken() token.Token {
	for !l.isEnd() {
		c := l.peek()
		if c == '"' {
			break
		}
		switch {
		case c == '\n':
			l.line++
			l.advance()
		case c == '$' && l.peekNext() == '{':
			l.emitInterpolation()
			l.start = l.curr // resume collecting the segment after '}'
		default:
			l.advance()
		}
	}

	if l.isEnd() {
		return l.errToken("Unterminated string")
	}

	tok := l.makeToken(token.StrLit)
	l.advance() // consume closing '"'
	return tok
}

// emitInterpolation appends the INTRPL prefix token for one "${" frame,
// then scans tokens in line until the matching '}' (itself emitted as a
// RIGHT_BRACE), handling nested "${" by recursing through scanToken's own
// dispatch. If the source ends before the frame closes, an ERROR token
// reporting the unclosed brace is appended.
func (l *Lexer) emitInterpolation() {
	l.tokens = append(l.tokens, l.makeToken(token.Intrpl))
	l.advance() // '$'
	l.advance() // '{'

	for !l.isEnd() {
		tok := l.scanToken()
		if tok.Kind == token.End {
			// Only trailing whitespace was left; scan appends the single END.
			break
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == token.RightBrace {
			return
		}
		if tok.Kind == token.Error {
			return
		}
	}

	l.tokens = append(l.tokens, l.errToken("Expected closing braces '}'"))
}

func (l *Lexer) numberToken() token.Token {
	kind := token.I32
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		kind = token.F64
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'f' {
			kind = token.F32
			l.advance()
		}
	}
	return l.makeToken(kind)
}

func (l *Lexer) identToken() token.Token {
	for !l.isEnd() && (isAlphaNumeric(l.peek())) {
		l.advance()
	}
	word := l.src[l.start:l.curr]
	if kind, ok := token.Keywords[word]; ok {
		return l.makeToken(kind)
	}
	return l.makeToken(token.Identifier)
}

func (l *Lexer) makeToken(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: l.src[l.start:l.curr], Line: l.line}
}

func (l *Lexer) errToken(msg string) token.Token {
	return token.Token{Kind: token.Error, Lexeme: msg, Line: l.line}
}

func (l *Lexer) peek() byte {
	if l.isEnd() {
		return 0
	}
	return l.src[l.curr]
}

func (l *Lexer) peekNext() byte { return l.peekN(1) }

func (l *Lexer) peekN(n int) byte {
	if l.curr+n >= len(l.src) {
		return 0
	}
	return l.src[l.curr+n]
}

func (l *Lexer) advance() byte {
	c := l.src[l.curr]
	l.curr++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isEnd() || l.src[l.curr] != expected {
		return false
	}
	l.curr++
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.isEnd() {
		switch c := l.peek(); c {
		case '\n':
			l.line++
			l.advance()
		case ' ', '\r', '\t':
			l.advance()
		case '/':
			if l.peekNext() == '/' {
				for !l.isEnd() && l.peek() != '\n' {
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) isEnd() bool { return l.curr >= len(l.src) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
