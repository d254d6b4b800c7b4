package kv1

import "testing"

func TestLexHeaderAndRows(t *testing.T) {
	src := "[I|1]\r\n;; a comment line\r\nORUN|TST|OU1|Unit One||\r\n"
	res := Lex([]byte(src))
	if res.Header != "I|1" {
		t.Fatalf("Header = %q, want %q", res.Header, "I|1")
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected lexical errors: %v", res.Errors)
	}
	rows := Rows(res.Tokens)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := []string{"ORUN", "TST", "OU1", "Unit One", "", ""}
	if len(rows[0]) != len(want) {
		t.Fatalf("row has %d cells, want %d: %v", len(rows[0]), len(want), rows[0])
	}
	for i, c := range want {
		if rows[0][i] != c {
			t.Errorf("cell[%d] = %q, want %q", i, rows[0][i], c)
		}
	}
}

func TestLexQuotedCellWithEscapedQuote(t *testing.T) {
	src := "ORUN|TST|OU1|\"Unit \"\"One\"\"\"|\r\n"
	res := Lex([]byte(src))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected lexical errors: %v", res.Errors)
	}
	rows := Rows(res.Tokens)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][3] != `Unit "One"` {
		t.Errorf("cell[3] = %q, want %q", rows[0][3], `Unit "One"`)
	}
}

func TestLexTrailingWhitespaceStrippedOnUnquotedOnly(t *testing.T) {
	src := "ORUN|TST  |\"  quoted  \"|\r\n"
	res := Lex([]byte(src))
	rows := Rows(res.Tokens)
	if rows[0][1] != "TST" {
		t.Errorf("unquoted cell = %q, want trailing whitespace stripped to %q", rows[0][1], "TST")
	}
	if rows[0][2] != "  quoted  " {
		t.Errorf("quoted cell = %q, want whitespace kept verbatim", rows[0][2])
	}
}

func TestLexCRLFVariants(t *testing.T) {
	for _, terminator := range []string{"\r\n", "\n", "\r"} {
		src := "ORUN|TST|OU1" + terminator + "ORUN|TST|OU2" + terminator
		res := Lex([]byte(src))
		if len(res.Errors) != 0 {
			t.Fatalf("terminator %q: unexpected errors %v", terminator, res.Errors)
		}
		rows := Rows(res.Tokens)
		if len(rows) != 2 {
			t.Fatalf("terminator %q: got %d rows, want 2", terminator, len(rows))
		}
	}
}

func TestLexUnterminatedQuotedCellIsLexicalError(t *testing.T) {
	src := "ORUN|TST|\"unterminated\r\n"
	res := Lex([]byte(src))
	if len(res.Errors) == 0 {
		t.Fatalf("expected a lexical error for an unterminated quoted cell")
	}
}
