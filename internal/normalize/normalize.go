// Package normalize rewrites PL/SQL source into its canonical form.
//
// The source is classified once into spans, the CREATE declaration is folded
// onto a single canonical line, and each flag transforms body spans
// independently. Literal and comment boundaries are always respected: a
// comment marker inside a literal is literal text, and literal content is
// never upper-cased.
package normalize

import (
	"strings"

	"github.com/plsqlnorm/plsqlnorm/internal/header"
	"github.com/plsqlnorm/plsqlnorm/internal/scanner"
)

// Options control a single normalization call.
type Options struct {
	Flags Flags
	// Lines, when positive, limits normalization to spans starting within
	// the first Lines source lines; the rest of the source is appended
	// verbatim.
	Lines int
}

// Normalize rewrites src according to opts. Fails with *ConfigError,
// *scanner.SyntaxError or *header.FormatError; on failure no partial output
// is returned.
func Normalize(src string, opts Options) (string, error) {
	if err := opts.Flags.Validate(); err != nil {
		return "", err
	}

	// DOS newlines normalize unconditionally.
	src = strings.ReplaceAll(src, "\r", "")

	spans, err := scanner.Scan(src)
	if err != nil {
		return "", err
	}
	h, body, err := header.Extract(spans)
	if err != nil {
		return "", err
	}
	if err := checkSingleObject(body); err != nil {
		return "", err
	}

	if opts.Flags.CommentsOnly {
		return commentsOnly(spans), nil
	}

	cutoff := len(src)
	if opts.Lines > 0 {
		cutoff = lineCutoff(src, opts.Lines)
	}
	limited := cutoff < len(src)

	var b strings.Builder
	b.Grow(len(src) + 16)
	b.WriteString(h.CanonicalLine())
	for _, sp := range body {
		if sp.Start >= cutoff {
			b.WriteString(src[sp.Start:])
			break
		}
		b.WriteString(transform(sp, opts.Flags))
	}

	out := b.String()
	if !limited {
		out = ensureSlash(out, opts.Flags)
	}
	return out, nil
}

// transform rewrites one body span per the flag set.
func transform(sp scanner.Span, f Flags) string {
	switch sp.Kind {
	case scanner.LineComment, scanner.BlockComment:
		if f.NoComments {
			return " "
		}
		return sp.Text
	case scanner.StringLiteral:
		if f.NoLiterals {
			return sp.OpenDelim + sp.CloseDelim
		}
		return sp.Text
	case scanner.QuotedIdentifier:
		if f.Uppercase {
			return strings.ToUpper(sp.Text)
		}
		return sp.Text
	default:
		text := sp.Text
		if f.Uppercase {
			text = strings.ToUpper(text)
		}
		if f.NoSpaces {
			text = collapseSpaces(text)
		}
		return text
	}
}

// checkSingleObject rejects a second CREATE statement in the body. Dynamic
// SQL is unaffected: CREATE inside a string literal is literal text.
func checkSingleObject(body []scanner.Span) error {
	for _, sp := range body {
		if sp.Kind != scanner.Code {
			continue
		}
		fields := strings.Fields(sp.Text)
		for _, w := range fields {
			if strings.EqualFold(w, "CREATE") {
				return &header.FormatError{Msg: "multiple CREATE statements: only one object per source is supported"}
			}
		}
	}
	return nil
}

// commentsOnly concatenates every comment span, each starting on its own
// line. All other spans, including the declaration, are discarded.
func commentsOnly(spans []scanner.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Kind != scanner.LineComment && sp.Kind != scanner.BlockComment {
			continue
		}
		b.WriteString(sp.Text)
		if !strings.HasSuffix(sp.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// collapseSpaces replaces every whitespace run with a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	run := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			run = true
			continue
		}
		if run {
			b.WriteByte(' ')
			run = false
		}
		b.WriteByte(c)
	}
	if run {
		b.WriteByte(' ')
	}
	return b.String()
}

// lineCutoff returns the byte offset just past the n-th source line.
func lineCutoff(src string, n int) int {
	off := 0
	for i := 0; i < n; i++ {
		nl := strings.IndexByte(src[off:], '\n')
		if nl < 0 {
			return len(src)
		}
		off += nl + 1
	}
	return off
}

// ensureSlash appends the SQL*Plus run terminator when the output does not
// already end with a standalone slash. Trailing whitespace is dropped first
// so a second normalization pass reproduces the same text.
func ensureSlash(out string, f Flags) string {
	trimmed := strings.TrimRight(out, " \t\n")
	if strings.HasSuffix(trimmed, "/") {
		rest := trimmed[:len(trimmed)-1]
		if rest == "" || isSpace(rest[len(rest)-1]) {
			return out
		}
	}
	if f.NoSpaces {
		return trimmed + " /"
	}
	return trimmed + "\n\n/"
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
