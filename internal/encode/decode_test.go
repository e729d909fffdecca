package encode

import (
	"strings"
	"testing"
)

// "привет" in cp1251.
var cp1251Bytes = []byte{0xEF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}

func TestDecodeToString_UTF8Passthrough(t *testing.T) {
	src := "-- комментарий\ncreate procedure p as null;"
	out, err := DecodeToString([]byte(src), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != src {
		t.Errorf("Expected valid UTF-8 to pass through, got %q", out)
	}
}

func TestDecodeToString_CP1251(t *testing.T) {
	out, err := DecodeToString(cp1251Bytes, []string{"cp1251"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != "привет" {
		t.Errorf("Expected %q, got %q", "привет", out)
	}
}

func TestDecodeToString_NameNormalization(t *testing.T) {
	out, err := DecodeToString(cp1251Bytes, []string{" Windows-1251 "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != "привет" {
		t.Errorf("Expected %q, got %q", "привет", out)
	}
}

func TestDecodeToString_ProbeOrder(t *testing.T) {
	// The first clean decoding wins even when a later candidate would also
	// succeed.
	fromCP866, err := DecodeToString(cp1251Bytes, []string{"cp866", "cp1251"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	fromCP1251, err := DecodeToString(cp1251Bytes, []string{"cp1251", "cp866"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fromCP866 == fromCP1251 {
		t.Errorf("Expected probe order to matter, both produced %q", fromCP866)
	}
	if fromCP1251 != "привет" {
		t.Errorf("Expected %q, got %q", "привет", fromCP1251)
	}
}

func TestDecodeToString_UnsupportedName(t *testing.T) {
	_, err := DecodeToString([]byte{0x98}, []string{"ebcdic"})
	if err == nil {
		t.Fatal("Expected error for unsupported encoding, got none")
	}
	if !strings.Contains(err.Error(), "unsupported encoding") {
		t.Errorf("Expected unsupported encoding error, got %v", err)
	}
}

func TestDecodeToString_NoCandidateFits(t *testing.T) {
	// 0x98 is unmapped in cp1251, so the only candidate decodes to a
	// replacement character and is rejected.
	_, err := DecodeToString([]byte{0x98}, []string{"cp1251"})
	if err == nil {
		t.Fatal("Expected error, got none")
	}
	if !strings.Contains(err.Error(), "not detected or not supported") {
		t.Errorf("Expected detection failure error, got %v", err)
	}
}

func TestDecodeToString_SkipsUTF8Candidate(t *testing.T) {
	out, err := DecodeToString(cp1251Bytes, []string{"utf-8", "cp1251"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != "привет" {
		t.Errorf("Expected %q, got %q", "привет", out)
	}
}
