// internal/envfile/envfile_test.go
//
// Unit-tests for Locate and ParseEnvironment.
//
// Run: go test ./internal/envfile -v

package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("APP_NAME=demo\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLocate_SpecificFileWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "staging.env"))
	touch(t, filepath.Join(dir, ".env"))

	got := Locate(dir, "staging")
	if want := filepath.Join(dir, "staging.env"); got != want {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestLocate_FallsBackToDotEnv(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".env"))

	got := Locate(dir, "staging")
	if want := filepath.Join(dir, ".env"); got != want {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestLocate_EmptyNameUsesDevelopment(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "development.env"))

	got := Locate(dir, "")
	if want := filepath.Join(dir, "development.env"); got != want {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestLocate_NothingPresent(t *testing.T) {
	dir := t.TempDir()

	got := Locate(dir, "production")
	if want := filepath.Join(dir, ".env"); got != want {
		t.Fatalf("Locate = %q, want %q", got, want)
	}
}

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"":            Development,
		"development": Development,
		" Staging ":   Staging,
		"PRODUCTION":  Production,
		"test":        Test,
	}
	for in, want := range cases {
		got, err := ParseEnvironment(in)
		if err != nil {
			t.Fatalf("ParseEnvironment(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseEnvironment(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseEnvironment("qa"); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
}
