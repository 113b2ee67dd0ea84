// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("TOKEN_SECRET", "test-token-secret")
	t.Setenv("CHECKOUT_SECRET", "test-checkout-secret")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PUBLIC_BASE_URL", "https://paris.example/")
	t.Setenv("MAX_UPLOAD_MB", "8")
	t.Setenv("API_BASE_URL", "")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.PublicBaseURL != "https://paris.example" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.PublicBaseURL)
	}
	if cfg.APIBaseURL != "http://localhost:9000" {
		t.Errorf("expected API URL to default to the port, got %s", cfg.APIBaseURL)
	}
	if cfg.MaxUploadMB != 8 {
		t.Errorf("expected 8MB upload limit, got %d", cfg.MaxUploadMB)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "postgres://x", "-t", "postgres", "-token-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.TokenSecret != "s1" {
		t.Errorf("expected CLI token secret, got %s", cfg.TokenSecret)
	}
}

func TestParseFlags_MissingSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	os.Unsetenv("TOKEN_SECRET")
	os.Unsetenv("CHECKOUT_SECRET")

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when TOKEN_SECRET is missing")
	}

	t.Setenv("TOKEN_SECRET", "x")
	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when CHECKOUT_SECRET is missing")
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"bad db type", nil, []string{"-t", "mysql"}},
		{"bad upload size", map[string]string{"MAX_UPLOAD_MB": "-1"}, nil},
		{"admin email without password", map[string]string{"ADMIN_EMAIL": "a@b.c"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
