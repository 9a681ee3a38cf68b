package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ReferralCodeForUser derives the user's permanent referral code from their
// username, falling back to the Telegram id when no usable username exists.
func ReferralCodeForUser(username string, telegramID int64) string {
	cleaned := nonAlphanumeric.ReplaceAllString(username, "")
	if cleaned == "" {
		return fmt.Sprintf("AS_USER_ID_%d", telegramID)
	}
	return "AS" + cleaned
}

// RandomizedReferralCode appends a random 4-digit suffix. Used when a derived
// code collides with an existing user's code.
func RandomizedReferralCode(username string, telegramID int64) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s%04d", ReferralCodeForUser(username, telegramID), suffix.Int64()), nil
}
