package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData signs query values the way Telegram does for WebApp initData.
func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dataCheck []string
	for _, k := range keys {
		dataCheck = append(dataCheck, fmt.Sprintf("%s=%s", k, values.Get(k)))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	h := hmac.New(sha256.New, secret.Sum(nil))
	h.Write([]byte(strings.Join(dataCheck, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

func buildInitData(t *testing.T, authDate time.Time) string {
	t.Helper()

	values := url.Values{}
	values.Set("user", `{"id":987654321,"username":"asuser","first_name":"Alice","last_name":"Smith"}`)
	values.Set("auth_date", fmt.Sprintf("%d", authDate.Unix()))
	values.Set("query_id", "AAE1")

	values.Set("hash", signInitData(values, testBotToken))
	return values.Encode()
}

func TestValidateWebAppData(t *testing.T) {
	initData := buildInitData(t, time.Now())

	user, err := ValidateWebAppData(initData, testBotToken)
	if err != nil {
		t.Fatalf("ValidateWebAppData failed: %v", err)
	}

	if user.ID != 987654321 {
		t.Errorf("ID = %d, want 987654321", user.ID)
	}
	if user.Username != "asuser" {
		t.Errorf("Username = %q, want %q", user.Username, "asuser")
	}
	if user.DisplayName() != "Alice Smith" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName(), "Alice Smith")
	}
}

func TestValidateWebAppDataTampered(t *testing.T) {
	initData := buildInitData(t, time.Now())

	tampered := strings.Replace(initData, "987654321", "111111111", 1)
	if _, err := ValidateWebAppData(tampered, testBotToken); err == nil {
		t.Fatal("expected tampered init data to be rejected")
	}
}

func TestValidateWebAppDataWrongToken(t *testing.T) {
	initData := buildInitData(t, time.Now())

	if _, err := ValidateWebAppData(initData, "999:OTHER-TOKEN"); err == nil {
		t.Fatal("expected init data signed with another token to be rejected")
	}
}

func TestValidateWebAppDataExpired(t *testing.T) {
	initData := buildInitData(t, time.Now().Add(-48*time.Hour))

	if _, err := ValidateWebAppData(initData, testBotToken); err == nil {
		t.Fatal("expected stale init data to be rejected")
	}
}

func TestValidateWebAppDataMissingHash(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":1}`)
	values.Set("auth_date", fmt.Sprintf("%d", time.Now().Unix()))

	if _, err := ValidateWebAppData(values.Encode(), testBotToken); err == nil {
		t.Fatal("expected init data without hash to be rejected")
	}
}
