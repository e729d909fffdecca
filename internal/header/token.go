package header

import (
	"strings"

	"github.com/plsqlnorm/plsqlnorm/internal/scanner"
)

// token is one meaningful unit of the declaration: a bare word, a quoted
// identifier (text kept with its quotes), or a single punctuation character.
type token struct {
	text   string
	quoted bool
	start  int
	end    int
}

// keyword reports whether the token is the given bare keyword.
func (t token) keyword(s string) bool {
	return !t.quoted && strings.EqualFold(t.text, s)
}

// identifier reports whether the token can name an object.
func (t token) identifier() bool {
	return t.quoted || (len(t.text) > 0 && isWordByte(t.text[0]))
}

// tokenizer walks Code and QuotedIdentifier spans, skipping comment trivia.
// A string literal before the terminator has no legal place in a
// declaration and stops tokenization with a *FormatError.
type tokenizer struct {
	spans []scanner.Span
	si    int
	pos   int // position within the current Code span's text
}

func (t *tokenizer) next() (token, bool, error) {
	for t.si < len(t.spans) {
		sp := t.spans[t.si]
		switch sp.Kind {
		case scanner.LineComment, scanner.BlockComment:
			t.si++
			t.pos = 0

		case scanner.QuotedIdentifier:
			t.si++
			t.pos = 0
			return token{text: sp.Text, quoted: true, start: sp.Start, end: sp.End}, true, nil

		case scanner.StringLiteral:
			return token{}, false, formatErrf("string literal inside object declaration at offset %d", sp.Start)

		default: // Code
			text := sp.Text
			for t.pos < len(text) && isSpace(text[t.pos]) {
				t.pos++
			}
			if t.pos >= len(text) {
				t.si++
				t.pos = 0
				continue
			}
			start := t.pos
			if isWordByte(text[t.pos]) {
				for t.pos < len(text) && isWordByte(text[t.pos]) {
					t.pos++
				}
			} else {
				t.pos++
			}
			return token{text: text[start:t.pos], start: sp.Start + start, end: sp.Start + t.pos}, true, nil
		}
	}
	return token{}, false, nil
}

// parser adds one token of lookahead over the tokenizer.
type parser struct {
	tz     tokenizer
	peeked *token
}

func (p *parser) next() (token, bool, error) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, true, nil
	}
	return p.tz.next()
}

func (p *parser) peek() (token, bool, error) {
	if p.peeked != nil {
		return *p.peeked, true, nil
	}
	t, ok, err := p.tz.next()
	if err != nil || !ok {
		return token{}, ok, err
	}
	p.peeked = &t
	return t, true, nil
}

// isWordByte treats bytes above 0x7f as word bytes so that a non-ASCII name
// forms one token and fails the ASCII check with a precise error instead of
// breaking the token stream.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '$', b == '#':
		return true
	case b >= 0x80:
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
