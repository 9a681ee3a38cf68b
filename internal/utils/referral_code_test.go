package utils

import (
	"strings"
	"testing"
)

func TestReferralCodeForUser(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		telegramID int64
		want       string
	}{
		{"plain username", "alice", 42, "ASalice"},
		{"strips punctuation", "a.li-ce_99", 42, "ASalice99"},
		{"empty username falls back to id", "", 42, "AS_USER_ID_42"},
		{"all-symbol username falls back to id", "...", 42, "AS_USER_ID_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReferralCodeForUser(tt.username, tt.telegramID); got != tt.want {
				t.Errorf("ReferralCodeForUser(%q, %d) = %q, want %q", tt.username, tt.telegramID, got, tt.want)
			}
		})
	}
}

func TestRandomizedReferralCode(t *testing.T) {
	code, err := RandomizedReferralCode("alice", 42)
	if err != nil {
		t.Fatalf("RandomizedReferralCode failed: %v", err)
	}

	if !strings.HasPrefix(code, "ASalice") {
		t.Errorf("code %q missing derived prefix", code)
	}
	if len(code) != len("ASalice")+4 {
		t.Errorf("code %q missing 4-digit suffix", code)
	}
}
