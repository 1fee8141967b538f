package lexer

import (
	"testing"

	"glipt/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextTokenBasics(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Type
	}{
		{"", []token.Type{token.EOF}},
		{"1 + 2", []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}},
		{`"hi"`, []token.Type{token.STRING, token.EOF}},
		{"var x = 1", []token.Type{token.VAR, token.IDENT, token.ASSIGN, token.NUMBER, token.EOF}},
		{"fn add(a, b) { return a + b }", []token.Type{
			token.FN, token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
			token.LBRACE, token.RETURN, token.IDENT, token.PLUS, token.IDENT, token.RBRACE, token.EOF,
		}},
		{"a == b != c <= d >= e", []token.Type{
			token.IDENT, token.EQ, token.IDENT, token.NOT_EQ, token.IDENT, token.LE, token.IDENT,
			token.GE, token.IDENT, token.EOF,
		}},
		{"x += 1", []token.Type{token.IDENT, token.PLUS_ASSIGN, token.NUMBER, token.EOF}},
		{"1..10", []token.Type{token.NUMBER, token.DOTDOT, token.NUMBER, token.EOF}},
		{"1..=10", []token.Type{token.NUMBER, token.DOTDOTEQ, token.NUMBER, token.EOF}},
		{"a |> b", []token.Type{token.IDENT, token.PIPE, token.IDENT, token.EOF}},
		{"_", []token.Type{token.WILDCARD, token.EOF}},
		{"match x { 1 -> \"a\", _ -> \"b\" }", []token.Type{
			token.MATCH, token.IDENT, token.LBRACE,
			token.NUMBER, token.ARROW, token.STRING, token.COMMA,
			token.WILDCARD, token.ARROW, token.STRING,
			token.RBRACE, token.EOF,
		}},
		{"`ls -la`", []token.Type{token.BACKTICK, token.EOF}},
		{"true false nil", []token.Type{token.TRUE, token.FALSE, token.NIL, token.EOF}},
	}

	for i, tt := range tests {
		toks := collect(tt.input)
		if len(toks) != len(tt.want) {
			t.Fatalf("case %d (%q): got %d tokens, want %d: %v", i, tt.input, len(toks), len(tt.want), toks)
		}
		for j, want := range tt.want {
			if toks[j].Type != want {
				t.Fatalf("case %d (%q): token %d: got %v, want %v", i, tt.input, j, toks[j].Type, want)
			}
		}
	}
}

func TestNextTokenLineTracking(t *testing.T) {
	toks := collect("a\nb\nc")
	if len(toks) < 3 {
		t.Fatalf("expected at least 3 tokens, got %d", len(toks))
	}
	lines := map[string]int{}
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			lines[tok.Lexeme] = tok.Line
		}
	}
	if lines["a"] != 1 || lines["b"] != 2 || lines["c"] != 3 {
		t.Fatalf("unexpected line numbers: %v", lines)
	}
}

func TestNextTokenSkipsComments(t *testing.T) {
	toks := collect("a # a comment\nb")
	var idents []string
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			idents = append(idents, tok.Lexeme)
		}
	}
	if len(idents) != 2 || idents[0] != "a" || idents[1] != "b" {
		t.Fatalf("comment not skipped correctly: %v", idents)
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks := collect(`"a\nb"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Type)
	}
	if toks[0].Lexeme != "a\nb" {
		t.Fatalf("expected escape decoded, got %q", toks[0].Lexeme)
	}
}

func TestNextTokenIllegalChar(t *testing.T) {
	toks := collect("@")
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", toks[0].Type)
	}
}
