package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	f := MustNew("tzs")
	tests := []struct {
		in   string
		want string
	}{
		{"180000", "TZS 180,000"},
		{"0", "TZS 0"},
		{"999.5", "TZS 1,000"},
		{"1234567", "TZS 1,234,567"},
	}
	for _, tt := range tests {
		if got := f.Format(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRejectsUnknownCode(t *testing.T) {
	if _, err := New("XYZW"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"TZS 180,000", 180000},
		{"5000", 5000},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("Parse(%q) = %s, want %d", tt.in, got, tt.want)
		}
	}
}
