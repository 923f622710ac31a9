package token

import "testing"

func TestKeywordsCoversControlAndTypeNames(t *testing.T) {
	for _, word := range []string{"let", "log", "if", "while", "class", "fun", "for", "else", "true", "false", "nil", "return", "super", "this", "and", "or"} {
		if _, ok := Keywords[word]; !ok {
			t.Errorf("Keywords[%q] missing", word)
		}
	}
	for word, want := range map[string]Kind{
		"bool": Bool, "i8": I8, "i16": I16, "i32": I32, "i64": I64,
		"u8": U8, "u16": U16, "u32": U32, "u64": U64,
		"f32": F32, "f64": F64, "char": Char, "string": String,
	} {
		if got := Keywords[word]; got != want {
			t.Errorf("Keywords[%q] = %v, want %v", word, got, want)
		}
	}
}

func TestStringLitDistinctFromStringKeyword(t *testing.T) {
	if Keywords["string"] != String {
		t.Fatalf("Keywords[\"string\"] = %v, want String", Keywords["string"])
	}
	if String == StrLit {
		t.Fatal("the 'string' type keyword and the STRING literal kind must be distinct")
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Identifier, Lexeme: "foo", Line: 3}
	got := tok.String()
	want := `IDENTIFIER "foo" @3`
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
