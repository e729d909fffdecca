package wrap

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
)

// wrapPayload builds a synthetic envelope payload around plain: zlib
// compress, apply the inverse substitution, prepend a dummy hash, base64
// with line breaks.
func wrapPayload(t *testing.T, plain string) string {
	t.Helper()

	var inv [256]byte
	for i, v := range substitution {
		inv[v] = byte(i)
	}

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write([]byte(plain)); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}

	comp := zbuf.Bytes()
	mapped := make([]byte, len(comp))
	for i, c := range comp {
		mapped[i] = inv[c]
	}

	b64 := base64.StdEncoding.EncodeToString(append(make([]byte, hashPrefixLen), mapped...))
	var b strings.Builder
	for len(b64) > 64 {
		b.WriteString(b64[:64])
		b.WriteByte('\n')
		b64 = b64[64:]
	}
	b.WriteString(b64)
	b.WriteByte('\n')
	return b.String()
}

// envelope assembles the textual wrapped form the way the wrap utility
// lays it out: declaration, filler lines, length line, base64 block.
func envelope(t *testing.T, decl, plain string) string {
	t.Helper()
	payload := wrapPayload(t, plain)
	return decl + " wrapped\na000000\n369\nabcd\nabcd\n7 " +
		fmt.Sprintf("%x", len(payload)) + "\n" + payload
}

func TestUnwrap_Procedure(t *testing.T) {
	env := envelope(t, "CREATE PROCEDURE p", "PROCEDURE p is\nbegin\n null;\nend;\x00")

	out, err := Unwrap(strings.NewReader(env))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := "CREATE PROCEDURE p is\nbegin\n null;\nend;\n"
	if string(out) != want {
		t.Errorf("Expected %q, got %q", want, string(out))
	}
}

func TestUnwrap_OrReplaceWithSchema(t *testing.T) {
	env := envelope(t, "create or replace package body scott.pkg", "PACKAGE BODY pkg is\nend;")

	out, err := Unwrap(strings.NewReader(env))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := "CREATE OR REPLACE PACKAGE BODY SCOTT.pkg is\nend;\n"
	if string(out) != want {
		t.Errorf("Expected %q, got %q", want, string(out))
	}
}

func TestUnwrap_MultipleObjects(t *testing.T) {
	env := envelope(t, "CREATE PROCEDURE a", "PROCEDURE a is begin null; end;") +
		envelope(t, "CREATE FUNCTION b", "FUNCTION b return number is begin return 1; end;")

	out, err := Unwrap(strings.NewReader(env))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "CREATE PROCEDURE a is") {
		t.Errorf("Expected first object in output, got %q", text)
	}
	if !strings.Contains(text, "CREATE FUNCTION b return number") {
		t.Errorf("Expected second object in output, got %q", text)
	}
}

func TestUnwrap_NoDeclaration(t *testing.T) {
	_, err := Unwrap(strings.NewReader("create procedure p as\nbegin null; end;"))
	if err == nil {
		t.Fatal("Expected error on unwrapped input, got none")
	}
	if !strings.Contains(err.Error(), "no wrapped declaration") {
		t.Errorf("Expected no wrapped declaration error, got %v", err)
	}
}

func TestSubstitutionIsPermutation(t *testing.T) {
	var seen [256]bool
	for _, v := range substitution {
		if seen[v] {
			t.Fatalf("Value 0x%02x appears twice in the substitution table", v)
		}
		seen[v] = true
	}
}

func TestLenPattern(t *testing.T) {
	m := lenPattern.FindStringSubmatch("abcd 1a2b")
	if m == nil || m[1] != "1a2b" {
		t.Fatalf("Expected payload length capture 1a2b, got %v", m)
	}
	for _, bad := range []string{"abcd", "abcd 1a2b extra", "xyz 12", ""} {
		if lenPattern.MatchString(bad) {
			t.Errorf("Expected %q to not match the length line pattern", bad)
		}
	}
}
