package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSignupAndSigninHandlers(t *testing.T) {
	svc, _ := newTestAuth(nil)
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := postJSON(t, h.Signup, `{"name":"test2","username":"email2@email.com","password":"123@abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	var signup map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&signup)
	if signup["success"] != true {
		t.Fatalf("signup body = %+v", signup)
	}

	rec = postJSON(t, h.Signup, `{"name":"again","username":"email2@email.com","password":"x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", rec.Code)
	}

	rec = postJSON(t, h.Signup, `{"name":"nouser","password":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete signup status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, h.Signin, `{"username":"email2@email.com","password":"123@abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signin status = %d, want 200", rec.Code)
	}
	var signin struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&signin)
	if !signin.Success || !strings.HasPrefix(signin.Token, "JWT ") {
		t.Fatalf("signin body = %+v", signin)
	}
	raw, err := ExtractToken(signin.Token)
	if err != nil {
		t.Fatalf("ExtractToken() unexpected error: %v", err)
	}
	if _, err := svc.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil).Context(), raw); err != nil {
		t.Fatalf("issued token rejected: %v", err)
	}

	rec = postJSON(t, h.Signin, `{"username":"email2@email.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signin status = %d, want 401", rec.Code)
	}
	rec = postJSON(t, h.Signin, `{"username":"ghost","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user signin status = %d, want 401", rec.Code)
	}
}

func TestSignoutHandlerRequiresIdentity(t *testing.T) {
	svc, _ := newTestAuth(nil)
	h := NewHandler(svc, nil)

	rec := postJSON(t, h.Signout, ``)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("signout without identity status = %d, want 401", rec.Code)
	}
}
