// Package token defines the closed set of lexical token kinds produced by
// the lexer and consumed by the parser.
package token

import "fmt"

// Kind is the closed enumeration of lexical token categories.
type Kind uint8

const (
	// Punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Semicolon
	Colon
	Dot

	// Arithmetic operators
	Plus
	Minus
	Star
	Slash
	Percent

	// Comparison / logical operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	Or

	// Primitive type names
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Char
	String

	// Literals. Numeric literals reuse the primitive-type kinds above
	// (I32, F64, F32, ...) directly as their Kind, tagged by the lexer
	// with the default or suffixed width; StrLit is the scanned contents
	// of a "..." literal (or its final segment after an interpolation),
	// distinct from the `string` type-name keyword above.
	Identifier
	StrLit

	// Keywords
	Class
	Else
	False
	For
	Fun
	If
	Let
	Nil
	Log
	Return
	Super
	This
	True
	While

	// String interpolation
	Intrpl

	Error
	End
)

var names = [...]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Semicolon: ";", Colon: ":", Dot: ".",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	And: "and", Or: "or",
	Bool: "bool", I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64", Char: "char", String: "string",
	Identifier: "IDENTIFIER", StrLit: "STRING",
	Class: "class", Else: "else", False: "false", For: "for", Fun: "fun",
	If: "if", Let: "let", Nil: "nil", Log: "log", Return: "return",
	Super: "super", This: "this", True: "true", While: "while",
	Intrpl: "INTRPL", Error: "ERROR", End: "END",
}

func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Keywords maps a source identifier to its keyword Kind. Type-name
// keywords (bool, i8, ..., string) are looked up through the same table
// since the grammar treats them identically to control keywords: both
// are reserved words that can never be used as an IDENTIFIER.
var Keywords = map[string]Kind{
	"and": And, "class": Class, "else": Else, "false": False,
	"for": For, "fun": Fun, "if": If, "let": Let, "nil": Nil,
	"log": Log, "or": Or, "return": Return, "super": Super,
	"this": This, "true": True, "while": While,
	"bool": Bool, "char": Char, "string": String,
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64,
	"f32": F32, "f64": F64,
}

// Token is a single lexical token: its kind, the exact source lexeme it
// was scanned from, and the 1-based source line it starts on.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.Kind, t.Lexeme, t.Line)
}
