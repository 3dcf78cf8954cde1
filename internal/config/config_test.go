// internal/config/config_test.go
//
// Unit-tests for the per-domain loader.
//
// Context
// -------
// The tests cover layering precedence (defaults → file → environment),
// fail-fast validation, and domain independence.  Files are written to
// t.TempDir and the environment is set with t.Setenv, so tests in this
// package do not run in parallel.
//
// Run: go test ./internal/config -v

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AdeptTravel/vaultboot/internal/envfile"
)

func writeEnv(t *testing.T, lines ...string) Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staging.env")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return Source{Path: path}
}

func asConfigErr(t *testing.T, err error) *ConfigurationError {
	t.Helper()
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v (%T) is not a *ConfigurationError", err, err)
	}
	return ce
}

func TestDatabase_EnvironmentWinsOverFile(t *testing.T) {
	src := writeEnv(t, "DB_PORT=1400", "DB_HOST=db-host-ref")
	t.Setenv("DB_PORT", "1433")

	db, err := LoadDatabase(src)
	if err != nil {
		t.Fatalf("LoadDatabase error: %v", err)
	}
	if db.Port != 1433 {
		t.Fatalf("Port = %d, want 1433", db.Port)
	}
	if db.Host != "db-host-ref" {
		t.Fatalf("Host = %q, want file value", db.Host)
	}
}

func TestDatabase_Defaults(t *testing.T) {
	db, err := LoadDatabase(Source{Path: filepath.Join(t.TempDir(), ".env")})
	if err != nil {
		t.Fatalf("LoadDatabase error: %v", err)
	}
	if db.Port != 1433 || db.Driver != "sqlserver" {
		t.Fatalf("unexpected defaults: %#v", db)
	}
}

func TestDatabase_PortCoercionFailure(t *testing.T) {
	src := writeEnv(t, "DB_PORT=fourteen")

	_, err := LoadDatabase(src)
	ce := asConfigErr(t, err)
	if ce.Domain != DomainDatabase || ce.Key != "DB_PORT" {
		t.Fatalf("error names %s/%s, want database/DB_PORT", ce.Domain, ce.Key)
	}
}

func TestDatabase_DriverRule(t *testing.T) {
	src := writeEnv(t, "DB_DRIVER=oracle")

	_, err := LoadDatabase(src)
	ce := asConfigErr(t, err)
	if ce.Key != "DB_DRIVER" {
		t.Fatalf("Key = %q, want DB_DRIVER", ce.Key)
	}
}

func TestSecretVault_RequiredURL(t *testing.T) {
	src := writeEnv(t, "APP_NAME=demo")
	t.Setenv("KEYVAULT_URL", "")

	_, err := LoadSecretVault(src)
	ce := asConfigErr(t, err)
	if ce.Domain != DomainSecretVault || ce.Key != "KEYVAULT_URL" {
		t.Fatalf("error names %s/%s, want keyvault/KEYVAULT_URL", ce.Domain, ce.Key)
	}
	if !strings.Contains(err.Error(), "KEYVAULT_URL") {
		t.Fatalf("message %q does not name the key", err.Error())
	}
}

func TestSecretVault_Loaded(t *testing.T) {
	src := writeEnv(t, "KEYVAULT_URL=https://demo.vault.azure.net/", "KEYVAULT_TIMEOUT_SECONDS=5")

	sv, err := LoadSecretVault(src)
	if err != nil {
		t.Fatalf("LoadSecretVault error: %v", err)
	}
	if sv.Provider != "auto" || sv.Mount != "secret" || sv.Field != "value" {
		t.Fatalf("unexpected defaults: %#v", sv)
	}
	if sv.Timeout().Seconds() != 5 {
		t.Fatalf("Timeout = %v, want 5s", sv.Timeout())
	}
}

func TestTelemetry_BoolCoercion(t *testing.T) {
	src := writeEnv(t, "SENTRY_ENABLE=true", "SENTRY_DNS=sentry-dsn-ref")

	tel, err := LoadTelemetry(src)
	if err != nil {
		t.Fatalf("LoadTelemetry error: %v", err)
	}
	if !tel.Enabled || tel.DSN != "sentry-dsn-ref" {
		t.Fatalf("unexpected telemetry: %#v", tel)
	}

	t.Setenv("SENTRY_ENABLE", "maybe")
	_, err = LoadTelemetry(src)
	if ce := asConfigErr(t, err); ce.Key != "SENTRY_ENABLE" {
		t.Fatalf("Key = %q, want SENTRY_ENABLE", ce.Key)
	}
}

func TestApp_EnvironmentRule(t *testing.T) {
	t.Setenv("APP_ENV", "qa")

	_, err := LoadApp(Source{})
	if ce := asConfigErr(t, err); ce.Key != "APP_ENV" {
		t.Fatalf("Key = %q, want APP_ENV", ce.Key)
	}
}

func TestApp_EnvironmentIsCaseInsensitive(t *testing.T) {
	t.Setenv("APP_ENV", "Production")

	app, err := LoadApp(Source{})
	if err != nil {
		t.Fatalf("LoadApp error: %v", err)
	}
	if app.Env != "production" || app.Environment() != envfile.Production {
		t.Fatalf("Env = %q, want production", app.Env)
	}
}

func TestDatabase_ReferencesNameKeys(t *testing.T) {
	db := Database{Host: "db-host", Name: "db-name", User: "db-user", Password: "db-password"}

	want := "DB_HOST=db-host DB_NAME=db-name DB_USER=db-user DB_PASSWORD=db-password"
	if got := db.References(); got != want {
		t.Fatalf("References = %q, want %q", got, want)
	}
}

func TestApp_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	app, err := LoadApp(Source{})
	if err != nil {
		t.Fatalf("LoadApp error: %v", err)
	}
	if app.Port != DefaultPort || !app.Environment().IsDevelopment() {
		t.Fatalf("unexpected defaults: %#v", app)
	}
}

func TestLoadAll_DomainsIndependent(t *testing.T) {
	src := writeEnv(t,
		"KEYVAULT_URL=https://demo.vault.azure.net/",
		"AZURE_STORAGE=DefaultEndpointsProtocol=https;AccountName=demo",
		"DB_HOST=db-host",
		"DOCS_TITLE=Orders API",
	)

	d, err := LoadAll(src)
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if d.Documentation.Title != "Orders API" || d.Database.Host != "db-host" {
		t.Fatalf("unexpected aggregate: %#v", d)
	}
	if !strings.HasPrefix(d.ObjectStorage.ConnectionString, "DefaultEndpointsProtocol=https") {
		t.Fatalf("connection string truncated: %q", d.ObjectStorage.ConnectionString)
	}
}

func TestLoadAll_StorageRequired(t *testing.T) {
	src := writeEnv(t, "KEYVAULT_URL=https://demo.vault.azure.net/")
	t.Setenv("AZURE_STORAGE", "")

	_, err := LoadAll(src)
	ce := asConfigErr(t, err)
	if ce.Domain != DomainObjectStorage || ce.Key != "AZURE_STORAGE" {
		t.Fatalf("error names %s/%s, want storage/AZURE_STORAGE", ce.Domain, ce.Key)
	}
}
