package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"synapse/internal/domain"
	"synapse/internal/domain/models"
	"synapse/internal/httputil"
)

type stubVerifier struct {
	valid map[string]string // token -> subject
}

func (s *stubVerifier) VerifyToken(token string) (*models.TokenClaims, error) {
	sub, ok := s.valid[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	c := &models.TokenClaims{}
	c.Subject = sub
	return c, nil
}

func (s *stubVerifier) Close() error { return nil }

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, httputil.GetUserID(r))
	})
}

func TestAuth(t *testing.T) {
	verifier := &stubVerifier{valid: map[string]string{"good": "user-42"}}
	handler := AuthMiddleware(verifier, "dev-user", discard)(echoUser())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "/api/chats", "Bearer good", http.StatusOK, "user-42"},
		{"lowercase scheme", "/api/chats", "bearer good", http.StatusOK, "user-42"},
		{"invalid token", "/api/chats", "Bearer bad", http.StatusUnauthorized, ""},
		{"missing header", "/api/chats", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/api/chats", "Basic Z29vZA==", http.StatusUnauthorized, ""},
		{"public path", "/health", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != tt.wantBody {
				t.Errorf("user %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuth_DevUserWithoutVerifier(t *testing.T) {
	handler := AuthMiddleware(nil, "dev-user", discard)(echoUser())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	if rec.Body.String() != "dev-user" {
		t.Errorf("expected dev user, got %q", rec.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type %q", ct)
	}
}
