// Package encode turns raw file bytes into UTF-8 text.
//
// PL/SQL sources in the wild arrive in a handful of legacy single-byte
// encodings. Valid UTF-8 passes through untouched; everything else is probed
// against a caller-supplied list of likely encodings and the first decoding
// with no replacement characters wins.
package encode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultProbables is the probe order used when the caller gives none.
var DefaultProbables = []string{"cp866", "cp1251", "koi8-r"}

var encodings = map[string]encoding.Encoding{
	"cp866":        charmap.CodePage866,
	"ibm866":       charmap.CodePage866,
	"cp1251":       charmap.Windows1251,
	"windows-1251": charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
}

// DecodeToString decodes raw to UTF-8.
func DecodeToString(raw []byte, probables []string) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if len(probables) == 0 {
		probables = DefaultProbables
	}
	for _, name := range probables {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "utf-8" || name == "utf8" {
			// Already known invalid.
			continue
		}
		enc, ok := encodings[name]
		if !ok {
			return "", fmt.Errorf("unsupported encoding %q", name)
		}
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		// A replacement character means the byte had no mapping; reject the
		// candidate rather than hand back mangled text.
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}
	return "", fmt.Errorf("unable to decode: encoding is not detected or not supported")
}
