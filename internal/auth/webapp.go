package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// WebAppUser is the identity block Telegram embeds in WebApp initData.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName joins the first and last name the way the profile shows them.
func (u WebAppUser) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

const initDataMaxAge = 24 * time.Hour

// ValidateWebAppData verifies the HMAC-SHA256 signature of Telegram WebApp
// initData against the bot token and returns the embedded user. Payloads with
// an auth_date older than 24 hours are rejected.
func ValidateWebAppData(initData string, botToken string) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("init data has no hash")
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dataCheck []string
	for _, k := range keys {
		for _, v := range values[k] {
			dataCheck = append(dataCheck, fmt.Sprintf("%s=%s", k, v))
		}
	}
	dataCheckString := strings.Join(dataCheck, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	secretKey := secret.Sum(nil)

	h := hmac.New(sha256.New, secretKey)
	h.Write([]byte(dataCheckString))
	expectedHash := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(expectedHash), []byte(hash)) {
		return nil, fmt.Errorf("invalid init data signature")
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid auth_date: %w", err)
	}
	if time.Since(time.Unix(authDate, 0)) > initDataMaxAge {
		return nil, fmt.Errorf("init data expired")
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("user payload has no id")
	}

	return &user, nil
}
