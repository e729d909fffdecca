// Package header extracts the leading CREATE declaration from a scanned
// span sequence and renders it as one canonical line.
package header

import (
	"fmt"
	"strings"

	"github.com/plsqlnorm/plsqlnorm/internal/scanner"
)

// ObjectType is the schema object kind named in the declaration.
type ObjectType string

const (
	Procedure   ObjectType = "PROCEDURE"
	Function    ObjectType = "FUNCTION"
	Package     ObjectType = "PACKAGE"
	PackageBody ObjectType = "PACKAGE BODY"
)

// Terminator is the keyword that ends the declaration clause.
type Terminator string

const (
	As      Terminator = "AS"
	Is      Terminator = "IS"
	Wrapped Terminator = "WRAPPED"
)

// Header is the canonicalized CREATE declaration. Schema and ObjectName hold
// the canonical rendering: upper-case, quoted only when the inner text keeps
// a structural dot.
type Header struct {
	Schema     string
	ObjectName string
	ObjectType ObjectType
	OrReplace  bool
	Terminator Terminator
	Start      int // offset of the CREATE keyword
	End        int // offset just past the terminator keyword
}

// FormatError reports source that is not a single supported CREATE object.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return e.Msg }

func formatErrf(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// CanonicalLine renders the declaration as a single normalized line:
// upper-case, single-space separated, trailing newline. Tokens between the
// object name and the terminator (argument lists, RETURN clauses) are not
// part of the canonical line.
func (h *Header) CanonicalLine() string {
	parts := []string{"CREATE"}
	if h.OrReplace {
		parts = append(parts, "OR REPLACE")
	}
	parts = append(parts, string(h.ObjectType), h.QualifiedName(), string(h.Terminator))
	return strings.Join(parts, " ") + "\n"
}

// QualifiedName returns the canonical [schema.]name rendering.
func (h *Header) QualifiedName() string {
	if h.Schema != "" {
		return h.Schema + "." + h.ObjectName
	}
	return h.ObjectName
}

// Extract parses the declaration out of spans and returns it together with
// the spans that follow the terminator keyword. The span holding the
// terminator is split so the body starts right after it. Comments before and
// inside the declaration are trivia; a string literal there is a
// *FormatError, as is any unsupported shape.
func Extract(spans []scanner.Span) (*Header, []scanner.Span, error) {
	p := &parser{tz: tokenizer{spans: spans}}
	h := &Header{}

	tok, ok, err := p.next()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, formatErrf("no CREATE declaration found")
	}
	if !tok.keyword("CREATE") {
		return nil, nil, formatErrf("source does not begin with CREATE (got %q)", tok.text)
	}
	h.Start = tok.start

	tok, ok, err = p.next()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, formatErrf("declaration ends after CREATE")
	}
	if tok.keyword("OR") {
		rep, ok, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok || !rep.keyword("REPLACE") {
			return nil, nil, formatErrf("OR is not followed by REPLACE")
		}
		h.OrReplace = true
		tok, ok, err = p.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, formatErrf("declaration ends after OR REPLACE")
		}
	}

	switch {
	case tok.keyword("PROCEDURE"):
		h.ObjectType = Procedure
	case tok.keyword("FUNCTION"):
		h.ObjectType = Function
	case tok.keyword("PACKAGE"):
		h.ObjectType = Package
		pk, ok, err := p.peek()
		if err != nil {
			return nil, nil, err
		}
		if ok && pk.keyword("BODY") {
			if _, _, err := p.next(); err != nil {
				return nil, nil, err
			}
			h.ObjectType = PackageBody
		}
	default:
		return nil, nil, formatErrf("unsupported object type %q", tok.text)
	}

	nameTok, ok, err := p.next()
	if err != nil {
		return nil, nil, err
	}
	if !ok || !nameTok.identifier() {
		return nil, nil, formatErrf("object name missing in declaration")
	}
	dot, ok, err := p.peek()
	if err != nil {
		return nil, nil, err
	}
	if ok && !dot.quoted && dot.text == "." {
		if _, _, err := p.next(); err != nil {
			return nil, nil, err
		}
		second, ok, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok || !second.identifier() {
			return nil, nil, formatErrf("object name missing after schema qualifier")
		}
		h.Schema, err = canonicalIdent(nameTok)
		if err != nil {
			return nil, nil, err
		}
		nameTok = second
	}
	h.ObjectName, err = canonicalIdent(nameTok)
	if err != nil {
		return nil, nil, err
	}

	for {
		tok, ok, err = p.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, formatErrf("declaration is not terminated by AS, IS or WRAPPED")
		}
		switch {
		case tok.keyword("AS"):
			h.Terminator = As
		case tok.keyword("IS"):
			h.Terminator = Is
		case tok.keyword("WRAPPED"):
			h.Terminator = Wrapped
		default:
			continue
		}
		h.End = tok.end
		break
	}

	return h, splitAt(spans, h.End), nil
}

// canonicalIdent upper-cases an identifier token and strips surrounding
// quotes unless the quoted text carries a structural dot.
func canonicalIdent(t token) (string, error) {
	if !asciiOnly(t.text) {
		return "", formatErrf("non-ASCII characters in identifier %q", t.text)
	}
	if !t.quoted {
		return strings.ToUpper(t.text), nil
	}
	inner := t.text[1 : len(t.text)-1]
	if strings.Contains(inner, ".") {
		return `"` + strings.ToUpper(inner) + `"`, nil
	}
	return strings.ToUpper(inner), nil
}

func asciiOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// splitAt returns the spans following byte offset off, splitting the span
// that straddles it.
func splitAt(spans []scanner.Span, off int) []scanner.Span {
	var body []scanner.Span
	for _, sp := range spans {
		switch {
		case sp.End <= off:
		case sp.Start < off:
			trimmed := sp
			trimmed.Text = sp.Text[off-sp.Start:]
			trimmed.Start = off
			body = append(body, trimmed)
		default:
			body = append(body, sp)
		}
	}
	return body
}
