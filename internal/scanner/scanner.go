// Package scanner classifies PL/SQL source text into contiguous spans.
//
// The scanner is a single left-to-right pass with an explicit state for the
// construct being consumed: code, line comment, block comment, string
// literal (plain or custom q'X...Y' form), quoted identifier. It never
// backtracks and looks ahead at most two bytes. Returned spans cover the
// input exactly once, in source order.
package scanner

import (
	"fmt"
	"strings"
)

// Kind classifies a span.
type Kind int

const (
	Code Kind = iota
	LineComment
	BlockComment
	StringLiteral
	QuotedIdentifier
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	case StringLiteral:
		return "string literal"
	case QuotedIdentifier:
		return "quoted identifier"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Span is a classified contiguous slice of the source text. Text includes
// the delimiters. For StringLiteral spans OpenDelim and CloseDelim hold the
// exact delimiter sequences: ' and ' for plain literals, q'X and Y' for the
// custom form.
type Span struct {
	Kind       Kind
	Text       string
	Start      int
	End        int
	OpenDelim  string
	CloseDelim string
}

// SyntaxError reports a construct left open at end of input. Offset is the
// byte offset where the construct began.
type SyntaxError struct {
	Offset    int
	Construct string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unterminated %s at offset %d", e.Construct, e.Offset)
}

// closingPair maps a custom quote open delimiter character to its paired
// closing character. Characters missing here close with themselves.
var closingPair = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

// CloseFor returns the closing character paired with the custom quote open
// delimiter character.
func CloseFor(open byte) byte {
	if c, ok := closingPair[open]; ok {
		return c
	}
	return open
}

// Scan splits src into classified spans. It fails with *SyntaxError when the
// input ends inside a comment, literal or quoted identifier. A line comment
// open at end of input is complete: its span simply runs to the end.
func Scan(src string) ([]Span, error) {
	var spans []Span
	n := len(src)

	codeStart := 0
	flush := func(end int) {
		if end > codeStart {
			spans = append(spans, Span{Kind: Code, Text: src[codeStart:end], Start: codeStart, End: end})
		}
	}

	i := 0
	for i < n {
		switch c := src[i]; {
		case c == '-' && i+1 < n && src[i+1] == '-':
			flush(i)
			end := n
			if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
				// The newline stays outside the comment span.
				end = i + nl
			}
			spans = append(spans, Span{Kind: LineComment, Text: src[i:end], Start: i, End: end})
			i, codeStart = end, end

		case c == '/' && i+1 < n && src[i+1] == '*':
			flush(i)
			rel := strings.Index(src[i+2:], "*/")
			if rel < 0 {
				return nil, &SyntaxError{Offset: i, Construct: "block comment"}
			}
			end := i + 2 + rel + 2
			spans = append(spans, Span{Kind: BlockComment, Text: src[i:end], Start: i, End: end})
			i, codeStart = end, end

		case c == '"':
			flush(i)
			rel := strings.IndexByte(src[i+1:], '"')
			if rel < 0 {
				return nil, &SyntaxError{Offset: i, Construct: "quoted identifier"}
			}
			end := i + 1 + rel + 1
			spans = append(spans, Span{Kind: QuotedIdentifier, Text: src[i:end], Start: i, End: end})
			i, codeStart = end, end

		case (c == 'q' || c == 'Q') && i+2 < n && src[i+1] == '\'' && !isSpace(src[i+2]):
			flush(i)
			open := src[i : i+3]
			closeSeq := string(CloseFor(src[i+2])) + "'"
			rel := strings.Index(src[i+3:], closeSeq)
			if rel < 0 {
				return nil, &SyntaxError{Offset: i, Construct: "string literal"}
			}
			end := i + 3 + rel + 2
			spans = append(spans, Span{
				Kind:       StringLiteral,
				Text:       src[i:end],
				Start:      i,
				End:        end,
				OpenDelim:  open,
				CloseDelim: closeSeq,
			})
			i, codeStart = end, end

		case c == '\'':
			flush(i)
			j := i + 1
			for {
				rel := strings.IndexByte(src[j:], '\'')
				if rel < 0 {
					return nil, &SyntaxError{Offset: i, Construct: "string literal"}
				}
				j += rel + 1
				if j < n && src[j] == '\'' {
					// Doubled quote stays inside the literal.
					j++
					continue
				}
				break
			}
			spans = append(spans, Span{
				Kind:       StringLiteral,
				Text:       src[i:j],
				Start:      i,
				End:        j,
				OpenDelim:  "'",
				CloseDelim: "'",
			})
			i, codeStart = j, j

		default:
			i++
		}
	}
	flush(n)
	return spans, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
