package scanner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan_CodeOnly(t *testing.T) {
	src := "begin null; end;"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []Span{{Kind: Code, Text: src, Start: 0, End: len(src)}}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("Span mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_AllCategories(t *testing.T) {
	src := "a := 'str'; -- note\n/* blk */ \"Id\" q'[x]'"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []Span{
		{Kind: Code, Text: "a := ", Start: 0, End: 5},
		{Kind: StringLiteral, Text: "'str'", Start: 5, End: 10, OpenDelim: "'", CloseDelim: "'"},
		{Kind: Code, Text: "; ", Start: 10, End: 12},
		{Kind: LineComment, Text: "-- note", Start: 12, End: 19},
		{Kind: Code, Text: "\n", Start: 19, End: 20},
		{Kind: BlockComment, Text: "/* blk */", Start: 20, End: 29},
		{Kind: Code, Text: " ", Start: 29, End: 30},
		{Kind: QuotedIdentifier, Text: `"Id"`, Start: 30, End: 34},
		{Kind: Code, Text: " ", Start: 34, End: 35},
		{Kind: StringLiteral, Text: "q'[x]'", Start: 35, End: 41, OpenDelim: "q'[", CloseDelim: "]'"},
	}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("Span mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_SpansCoverInput(t *testing.T) {
	src := "x := 'a''b' || q'{c}' /* d */ -- e\n\"F\" ;"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	off := 0
	for i, sp := range spans {
		if sp.Start != off {
			t.Errorf("span %d: expected start %d, got %d", i, off, sp.Start)
		}
		if sp.End-sp.Start != len(sp.Text) {
			t.Errorf("span %d: length %d does not match text %q", i, sp.End-sp.Start, sp.Text)
		}
		if src[sp.Start:sp.End] != sp.Text {
			t.Errorf("span %d: text %q does not match source slice %q", i, sp.Text, src[sp.Start:sp.End])
		}
		off = sp.End
	}
	if off != len(src) {
		t.Errorf("Expected spans to cover %d bytes, covered %d", len(src), off)
	}
}

func TestScan_DoubledQuoteEscape(t *testing.T) {
	src := "v := 'it''s';"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var lits []Span
	for _, sp := range spans {
		if sp.Kind == StringLiteral {
			lits = append(lits, sp)
		}
	}
	if len(lits) != 1 {
		t.Fatalf("Expected 1 string literal, got %d", len(lits))
	}
	if lits[0].Text != "'it''s'" {
		t.Errorf("Expected literal %q, got %q", "'it''s'", lits[0].Text)
	}
}

func TestCloseFor(t *testing.T) {
	cases := []struct {
		open, close byte
	}{
		{'(', ')'},
		{'[', ']'},
		{'{', '}'},
		{'<', '>'},
		{'!', '!'},
		{'#', '#'},
		{'"', '"'},
	}
	for _, c := range cases {
		if got := CloseFor(c.open); got != c.close {
			t.Errorf("CloseFor(%q): expected %q, got %q", c.open, c.close, got)
		}
	}
}

func TestScan_CustomQuoteLiterals(t *testing.T) {
	cases := []struct {
		src        string
		openDelim  string
		closeDelim string
	}{
		{"q'(a(b)c)'", "q'(", ")'"},
		{"q'[xy]'", "q'[", "]'"},
		{"q'{z}'", "q'{", "}'"},
		{"q'<w>'", "q'<", ">'"},
		{"q'!ab!'", "q'!", "!'"},
		{"Q'#t#'", "Q'#", "#'"},
		{`q'"babba'robba"'`, `q'"`, `"'`},
	}
	for _, c := range cases {
		spans, err := Scan(c.src)
		if err != nil {
			t.Fatalf("Scan(%q): expected no error, got %v", c.src, err)
		}
		if len(spans) != 1 {
			t.Fatalf("Scan(%q): expected 1 span, got %d", c.src, len(spans))
		}
		sp := spans[0]
		if sp.Kind != StringLiteral {
			t.Errorf("Scan(%q): expected string literal, got %v", c.src, sp.Kind)
		}
		if sp.Text != c.src {
			t.Errorf("Scan(%q): expected full text, got %q", c.src, sp.Text)
		}
		if sp.OpenDelim != c.openDelim || sp.CloseDelim != c.closeDelim {
			t.Errorf("Scan(%q): expected delims %q %q, got %q %q",
				c.src, c.openDelim, c.closeDelim, sp.OpenDelim, sp.CloseDelim)
		}
	}
}

func TestScan_QuoteAfterQNotCustom(t *testing.T) {
	// A space can not open a custom quote literal, so this is the word q
	// followed by a plain literal.
	spans, err := Scan("q' '")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := []Span{
		{Kind: Code, Text: "q", Start: 0, End: 1},
		{Kind: StringLiteral, Text: "' '", Start: 1, End: 4, OpenDelim: "'", CloseDelim: "'"},
	}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("Span mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_MarkersInsideLiteral(t *testing.T) {
	src := "x := '-- not a comment /* nor this */';"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, sp := range spans {
		if sp.Kind == LineComment || sp.Kind == BlockComment {
			t.Errorf("Expected no comment spans, got %v %q", sp.Kind, sp.Text)
		}
	}
}

func TestScan_LineCommentAtEOF(t *testing.T) {
	src := "null; -- trailing"
	spans, err := Scan(src)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	last := spans[len(spans)-1]
	if last.Kind != LineComment {
		t.Fatalf("Expected trailing line comment, got %v", last.Kind)
	}
	if last.End != len(src) {
		t.Errorf("Expected comment to run to %d, got %d", len(src), last.End)
	}
}

func TestScan_LineCommentExcludesNewline(t *testing.T) {
	spans, err := Scan("-- c\nnull;")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if spans[0].Text != "-- c" {
		t.Errorf("Expected comment text %q, got %q", "-- c", spans[0].Text)
	}
	if spans[1].Text != "\nnull;" {
		t.Errorf("Expected code text %q, got %q", "\nnull;", spans[1].Text)
	}
}

func TestScan_Unterminated(t *testing.T) {
	cases := []struct {
		src       string
		construct string
		offset    int
	}{
		{"ok /* open", "block comment", 3},
		{"x := 'open", "string literal", 5},
		{"x := q'[open", "string literal", 5},
		{"x := 'a''", "string literal", 5},
		{`x := "open`, "quoted identifier", 5},
	}
	for _, c := range cases {
		_, err := Scan(c.src)
		if err == nil {
			t.Fatalf("Scan(%q): expected error, got none", c.src)
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Fatalf("Scan(%q): expected *SyntaxError, got %T", c.src, err)
		}
		if serr.Construct != c.construct {
			t.Errorf("Scan(%q): expected construct %q, got %q", c.src, c.construct, serr.Construct)
		}
		if serr.Offset != c.offset {
			t.Errorf("Scan(%q): expected offset %d, got %d", c.src, c.offset, serr.Offset)
		}
	}
}
