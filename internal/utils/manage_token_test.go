package utils

import (
	"testing"
	"time"
)

func TestNewManageTokenFormat(t *testing.T) {
	tok, err := NewManageToken()
	if err != nil {
		t.Fatalf("NewManageToken() error = %v", err)
	}
	if len(tok) != len("vt_")+24 {
		t.Errorf("token length = %d, want %d", len(tok), len("vt_")+24)
	}
	if !ValidManageTokenFormat(tok) {
		t.Errorf("ValidManageTokenFormat(%q) = false for a freshly generated token", tok)
	}

	// two generations must not collide
	other, err := NewManageToken()
	if err != nil {
		t.Fatalf("NewManageToken() error = %v", err)
	}
	if tok == other {
		t.Error("two generated tokens are identical")
	}
}

func TestValidManageTokenFormat(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "wellFormed", token: "vt_0123456789abcdef01234567", want: true},
		{name: "missingPrefix", token: "0123456789abcdef01234567", want: false},
		{name: "tooShort", token: "vt_abc123", want: false},
		{name: "tooLong", token: "vt_0123456789abcdef012345678", want: false},
		{name: "upperCaseHexRejected", token: "vt_0123456789ABCDEF01234567", want: false},
		{name: "nonHex", token: "vt_0123456789abcdefghijklmn", want: false},
		{name: "empty", token: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidManageTokenFormat(tt.token); got != tt.want {
				t.Errorf("ValidManageTokenFormat(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestManageTokenExpiry(t *testing.T) {
	startsAt := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	want := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	if got := ManageTokenExpiry(startsAt); !got.Equal(want) {
		t.Errorf("ManageTokenExpiry(%v) = %v, want %v", startsAt, got, want)
	}
}
