package sepush

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTokenFromEnvDefaultName(t *testing.T) {
	t.Setenv(DefaultTokenEnv, " abc123 ")
	got, err := TokenFromEnv("")
	if err != nil {
		t.Fatalf("TokenFromEnv: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("token = %q", got)
	}
}

func TestTokenFromEnvMissing(t *testing.T) {
	t.Setenv("SEPUSH_TEST_EMPTY", "")
	_, err := TokenFromEnv("SEPUSH_TEST_EMPTY")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTokenNotSet {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Name != "SEPUSH_TEST_EMPTY" || apiErr.Kind.Class() != ClassConfig {
		t.Fatalf("unexpected error %#v", apiErr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SEPUSH_DOTENV_TOKEN=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("SEPUSH_DOTENV_TOKEN", "")
	os.Unsetenv("SEPUSH_DOTENV_TOKEN")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	got, err := TokenFromEnv("SEPUSH_DOTENV_TOKEN")
	if err != nil || got != "from-file" {
		t.Fatalf("token = %q, err = %v", got, err)
	}
}
