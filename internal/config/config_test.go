package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("GENERATION_BACKEND", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DefaultModel != "gemini-2.5-flash" {
		t.Errorf("unexpected default model %s", cfg.DefaultModel)
	}
	if cfg.ProModel != "gemini-2.5-pro" {
		t.Errorf("unexpected pro model %s", cfg.ProModel)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory store driver, got %s", cfg.StoreDriver)
	}
	if !cfg.DebugEnabled() {
		t.Error("expected debug enabled in dev by default")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "postgres without url",
			env:     map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": ""},
			wantErr: true,
		},
		{
			name:    "postgres with url",
			env:     map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": "postgres://localhost/synapse"},
			wantErr: false,
		},
		{
			name:    "unknown store",
			env:     map[string]string{"STORE_DRIVER": "redis"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"GENERATION_BACKEND": "openai"},
			wantErr: true,
		},
		{
			name:    "prod without jwks",
			env:     map[string]string{"ENVIRONMENT": "prod", "AUTH_JWKS_URL": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyFallback(t *testing.T) {
	cfg := &Config{GoogleAPIKey: "google"}
	if cfg.APIKey() != "google" {
		t.Errorf("expected fallback to GOOGLE_API_KEY, got %q", cfg.APIKey())
	}
	cfg.GeminiAPIKey = "gemini"
	if cfg.APIKey() != "gemini" {
		t.Errorf("expected GEMINI_API_KEY to win, got %q", cfg.APIKey())
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: "http://a.test, http://b.test,,"}
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", got)
	}
}
