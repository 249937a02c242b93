package utils

import (
	"testing"
	"time"
)

func TestStrToInt64(t *testing.T) {
	if n, err := StrToInt64("42"); err != nil || n != 42 {
		t.Errorf("StrToInt64(\"42\") = %d, %v", n, err)
	}
	if _, err := StrToInt64("forty-two"); err == nil {
		t.Error("non-numeric input accepted")
	}
}

func TestParseDateOrNil(t *testing.T) {
	if got := ParseDateOrNil(""); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
	if got := ParseDateOrNil("not-a-date"); got != nil {
		t.Errorf("malformed input = %v, want nil", got)
	}
	if got := ParseDateOrNil("31-12-2026"); got != nil {
		t.Errorf("wrong layout = %v, want nil", got)
	}

	got := ParseDateOrNil("2026-12-31")
	if got == nil {
		t.Fatal("valid date returned nil")
	}
	want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed = %v, want %v", got, want)
	}
}

func TestNewNullString(t *testing.T) {
	if NewNullString("") != nil {
		t.Error("empty string should map to nil")
	}
	if p := NewNullString("x"); p == nil || *p != "x" {
		t.Errorf("NewNullString(\"x\") = %v", p)
	}
}
