package lexer

import "testing"

func TestLexerBasic(t *testing.T) {
	input := `x = 42`

	l := New(input)

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "42"},
		{EOF, ""},
	}

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLexerControlFlow(t *testing.T) {
	input := `
for i = 1 to 10 step -1 {
	if i <= 5 && i >= 1 {
		sum = sum + i
	} else if !done || i == 0 {
		x = 1
	}
}
do { x = x + 1 } while x != 0
`

	l := New(input)

	var expected []TokenType
	expected = append(expected,
		FOR, IDENT, ASSIGN, INT, TO, INT, STEP, MINUS, INT, LBRACE,
		IF, IDENT, LTE, INT, AND, IDENT, GTE, INT, LBRACE,
		IDENT, ASSIGN, IDENT, PLUS, IDENT, RBRACE,
		ELSE, IF, BANG, IDENT, OR, IDENT, EQ, INT, LBRACE,
		IDENT, ASSIGN, INT, RBRACE,
		RBRACE,
		DO, LBRACE, IDENT, ASSIGN, IDENT, PLUS, INT, RBRACE, WHILE, IDENT, NEQ, INT,
		EOF,
	)

	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Type, want, tok.Literal)
		}
	}
}

func TestLexerTracksPosition(t *testing.T) {
	l := New("x\ny")

	first := l.NextToken()
	if first.Line != 1 {
		t.Errorf("first token line = %d, want 1", first.Line)
	}

	second := l.NextToken()
	if second.Line != 2 {
		t.Errorf("second token line = %d, want 2", second.Line)
	}
}
