// Package wrap deals with Oracle's wrapped object envelope: decoding the
// envelope back to source, and driving the external wrap utility for the
// opposite direction. The utility itself is separately licensed and never
// shipped with this tool.
package wrap

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// hashPrefixLen is the SHA-1 of the payload carried in front of it. It is
// skipped, not verified.
const hashPrefixLen = 20

// declPattern matches the textual envelope signature: the CREATE declaration
// terminated by WRAPPED.
var declPattern = regexp.MustCompile(`(?i)create\s+(or\s+replace\s+)?(package\s+body|package|procedure|function)\s+(\S+)\s+wrapped(\s|$)`)

// lenPattern matches the "abcd 1a2b" line preceding the base64 block; the
// second hex number is the payload length in characters, newlines included.
var lenPattern = regexp.MustCompile(`^[0-9a-f]+ ([0-9a-f]+)$`)

// Unwrap decodes every wrapped object in r and returns the restored source.
// The result is unpredictable when r does not actually carry the envelope.
func Unwrap(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r", "")

	var out bytes.Buffer
	for {
		m := declPattern.FindStringSubmatchIndex(text)
		if m == nil {
			break
		}
		orReplace := m[2] >= 0
		objType := strings.Join(strings.Fields(strings.ToUpper(text[m[4]:m[5]])), " ")
		objName := strings.ToUpper(text[m[6]:m[7]])

		payload, remaining, err := readPayload(text[m[1]:])
		if err != nil {
			return nil, err
		}
		decoded, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		out.Write(restorePrefix(decoded, orReplace, objType, objName))
		if out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n' {
			out.WriteByte('\n')
		}
		text = remaining
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("no wrapped declaration found")
	}
	return out.Bytes(), nil
}

// UnwrapFile decodes the wrapped file at path and writes the source to w.
func UnwrapFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	src, err := Unwrap(f)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// readPayload locates the length line after a declaration and accumulates
// whole lines until the announced character count is reached. Overshoot is
// handed back as the remaining text so a following object stays parseable.
func readPayload(rest string) (payload, remaining string, err error) {
	lines := strings.SplitAfter(rest, "\n")
	i := 0
	want := -1
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := lenPattern.FindStringSubmatch(line); m != nil {
			n, err := strconv.ParseInt(m[1], 16, 64)
			if err != nil {
				return "", "", err
			}
			want = int(n)
			i++
			break
		}
	}
	if want < 0 {
		return "", "", fmt.Errorf("wrapped payload length line not found")
	}

	var b strings.Builder
	for ; i < len(lines) && b.Len() < want; i++ {
		b.WriteString(lines[i])
	}
	payload = b.String()
	if len(payload) > want {
		remaining = payload[want:]
		payload = payload[:want]
	}
	remaining += strings.Join(lines[i:], "")
	return payload, remaining, nil
}

// decodePayload reverses the envelope encoding: base64, hash prefix,
// substitution table, zlib.
func decodePayload(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	if len(data) <= hashPrefixLen {
		return nil, fmt.Errorf("wrapped payload too short (%d bytes)", len(data))
	}
	data = data[hashPrefixLen:]

	mapped := make([]byte, len(data))
	for i, c := range data {
		mapped[i] = substitution[c]
	}

	zr, err := zlib.NewReader(bytes.NewReader(mapped))
	if err != nil {
		return nil, fmt.Errorf("inflate wrapped payload: %w", err)
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// restorePrefix turns the decoded body, which starts with the bare object
// type, back into a runnable CREATE statement. The schema qualifier lives
// only in the envelope declaration and is re-attached here.
func restorePrefix(decoded []byte, orReplace bool, objType, objName string) []byte {
	decoded = bytes.ReplaceAll(decoded, []byte{0}, nil)
	if !strings.HasPrefix(strings.ToUpper(string(decoded)), objType) {
		return decoded
	}

	prefix := "CREATE "
	if orReplace {
		prefix = "CREATE OR REPLACE "
	}
	prefix += objType + " "
	if schema, ok := schemaPart(objName); ok {
		prefix += schema + "."
	}

	rest := strings.TrimLeft(string(decoded)[len(objType):], " \t\n")
	return []byte(prefix + rest)
}

// schemaPart splits the schema qualifier off a possibly quoted
// schema.name pair. A dot inside quotes is part of the identifier.
func schemaPart(objName string) (string, bool) {
	inQuotes := false
	for i := 0; i < len(objName); i++ {
		switch objName[i] {
		case '"':
			inQuotes = !inQuotes
		case '.':
			if !inQuotes {
				return objName[:i], true
			}
		}
	}
	return "", false
}
