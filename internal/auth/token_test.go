package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	tm := NewTokenManager("secret", "movies-api", time.Hour)
	token, issued, err := tm.Issue("u-1", "alice")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if issued.ID == "" {
		t.Fatalf("expected a token id")
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" || claims.ID != issued.ID {
		t.Fatalf("Parse() claims = %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	tm := NewTokenManager("secret", "movies-api", time.Hour)
	good, _, err := tm.Issue("u-1", "alice")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	expired := NewTokenManager("secret", "movies-api", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, _ := expired.Issue("u-1", "alice")

	otherSecret, _, _ := NewTokenManager("other", "movies-api", time.Hour).Issue("u-1", "alice")
	otherIssuer, _, _ := NewTokenManager("secret", "someone-else", time.Hour).Issue("u-1", "alice")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1", Username: "alice"})
	noneToken, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"expired":      expiredToken,
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"alg none":     noneToken,
		"tampered":     good[:len(good)-2] + "xx",
		"garbage":      "not.a.token",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Parse(tok); err == nil {
				t.Fatalf("Parse() accepted %s token", name)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"JWT abc.def.ghi", "abc.def.ghi", false},
		{"jwt abc", "abc", false},
		{"Bearer abc", "abc", false},
		{"Basic abc", "", true},
		{"abc", "", true},
		{"JWT ", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ExtractToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestIssueRequiresIdentity(t *testing.T) {
	tm := NewTokenManager("secret", "movies-api", time.Hour)
	if _, _, err := tm.Issue("", "alice"); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("Issue() error = %v, want required error", err)
	}
}
