// internal/config/model.go
//
// Typed configuration model, one struct per domain.
//
// Context
// -------
// Six independent domains own disjoint key sets.  Each struct carries
// `koanf:"…"` tags naming the environment variable and `validate:"…"` tags
// for semantic rules.  Presence, defaults, and types live in the domain's
// Schema next to the struct.
//
// Secret-backed fields hold *references*, names the vault understands,
// never the concrete values.  `internal/bootstrap` exchanges them through
// `internal/vault` before handing anything to a consumer.
//
// Notes
// -----
//   - Structs are returned by value.  Nothing mutates them after load.
//   - Oxford commas, two spaces after periods.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdeptTravel/vaultboot/internal/envfile"
)

// Domain names used in errors and logs.
const (
	DomainApp           = "app"
	DomainDatabase      = "database"
	DomainTelemetry     = "telemetry"
	DomainDocumentation = "documentation"
	DomainSecretVault   = "keyvault"
	DomainObjectStorage = "storage"
)

// DefaultPort is the listen port when APP_PORT is unset.
const DefaultPort = 3000

//
// Application
//

// App identifies the running service.
type App struct {
	Name string `koanf:"APP_NAME"`
	Env  string `koanf:"APP_ENV"  validate:"oneof=development staging production test"`
	URL  string `koanf:"APP_URL"  validate:"omitempty,url"`
	Port int    `koanf:"APP_PORT" validate:"min=1,max=65535"`
}

var appSchema = Schema{
	{Key: "APP_NAME", Kind: String},
	{Key: "APP_ENV", Kind: String, Default: string(envfile.Development), Normalize: strings.ToLower},
	{Key: "APP_URL", Kind: String, Default: "http://localhost"},
	{Key: "APP_PORT", Kind: Int, Default: "3000"},
}

// Environment returns the validated deployment stage.
func (a App) Environment() envfile.Environment { return envfile.Environment(a.Env) }

// LoadApp loads the application domain.
func LoadApp(src Source) (App, error) { return load[App](DomainApp, appSchema, src) }

//
// Database
//

// Database holds connection settings.  Name, Host, User, and Password are
// secret references.
type Database struct {
	Driver   string `koanf:"DB_DRIVER"   validate:"oneof=sqlserver mysql"`
	Name     string `koanf:"DB_NAME"`
	Host     string `koanf:"DB_HOST"`
	Port     int    `koanf:"DB_PORT"     validate:"min=1,max=65535"`
	User     string `koanf:"DB_USER"`
	Password string `koanf:"DB_PASSWORD"`
}

var databaseSchema = Schema{
	{Key: "DB_DRIVER", Kind: String, Default: "sqlserver"},
	{Key: "DB_NAME", Kind: String},
	{Key: "DB_HOST", Kind: String},
	{Key: "DB_PORT", Kind: Int, Default: "1433"},
	{Key: "DB_USER", Kind: String},
	{Key: "DB_PASSWORD", Kind: String},
}

// LoadDatabase loads the database domain.
func LoadDatabase(src Source) (Database, error) {
	return load[Database](DomainDatabase, databaseSchema, src)
}

// References renders the secret-backed keys with their reference names.
// It is safe to log; it never contains resolved values.
func (d Database) References() string {
	return fmt.Sprintf("DB_HOST=%s DB_NAME=%s DB_USER=%s DB_PASSWORD=%s", d.Host, d.Name, d.User, d.Password)
}

//
// Telemetry
//

// Telemetry configures error reporting.  DSN is a secret reference and is
// only resolved when Enabled is true.
type Telemetry struct {
	DSN     string `koanf:"SENTRY_DNS"`
	Enabled bool   `koanf:"SENTRY_ENABLE"`
	Release string `koanf:"SENTRY_RELEASE"`
}

var telemetrySchema = Schema{
	{Key: "SENTRY_DNS", Kind: String},
	{Key: "SENTRY_ENABLE", Kind: Bool, Default: "false"},
	{Key: "SENTRY_RELEASE", Kind: String},
}

// LoadTelemetry loads the telemetry domain.
func LoadTelemetry(src Source) (Telemetry, error) {
	return load[Telemetry](DomainTelemetry, telemetrySchema, src)
}

//
// Documentation
//

// Documentation describes the published OpenAPI document.  All values are
// plain, none are secrets.
type Documentation struct {
	Title       string `koanf:"DOCS_TITLE"       validate:"required"`
	Description string `koanf:"DOCS_DESCRIPTION"`
	Version     string `koanf:"DOCS_VERSION"     validate:"required"`
	ServerName  string `koanf:"DOCS_SERVER_NAME"`
	Tag         string `koanf:"DOCS_TAG"`
	Path        string `koanf:"DOCS_PATH"        validate:"required"`
}

var documentationSchema = Schema{
	{Key: "DOCS_TITLE", Kind: String, Default: "Swagger API Docs"},
	{Key: "DOCS_DESCRIPTION", Kind: String, Default: "API Documentation"},
	{Key: "DOCS_VERSION", Kind: String, Default: "V1.0"},
	{Key: "DOCS_SERVER_NAME", Kind: String, Default: "local"},
	{Key: "DOCS_TAG", Kind: String, Default: "API Docs"},
	{Key: "DOCS_PATH", Kind: String, Default: "api-docs"},
}

// LoadDocumentation loads the documentation domain.
func LoadDocumentation(src Source) (Documentation, error) {
	return load[Documentation](DomainDocumentation, documentationSchema, src)
}

//
// Secret vault
//

// SecretVault locates the vault and tunes the client.
type SecretVault struct {
	URL            string `koanf:"KEYVAULT_URL"             validate:"required,url"`
	Provider       string `koanf:"KEYVAULT_PROVIDER"        validate:"oneof=auto azure hashicorp"`
	Mount          string `koanf:"KEYVAULT_MOUNT"`
	Field          string `koanf:"KEYVAULT_FIELD"`
	TimeoutSeconds int    `koanf:"KEYVAULT_TIMEOUT_SECONDS" validate:"min=1,max=300"`
}

var secretVaultSchema = Schema{
	{Key: "KEYVAULT_URL", Kind: String, Required: true},
	{Key: "KEYVAULT_PROVIDER", Kind: String, Default: "auto"},
	{Key: "KEYVAULT_MOUNT", Kind: String, Default: "secret"},
	{Key: "KEYVAULT_FIELD", Kind: String, Default: "value"},
	{Key: "KEYVAULT_TIMEOUT_SECONDS", Kind: Int, Default: "10"},
}

// Timeout bounds a single vault round trip.
func (s SecretVault) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// LoadSecretVault loads the secret vault domain.
func LoadSecretVault(src Source) (SecretVault, error) {
	return load[SecretVault](DomainSecretVault, secretVaultSchema, src)
}

//
// Object storage
//

// ObjectStorage holds the storage account connection string.
type ObjectStorage struct {
	ConnectionString string `koanf:"AZURE_STORAGE" validate:"required"`
}

var objectStorageSchema = Schema{
	{Key: "AZURE_STORAGE", Kind: String, Required: true},
}

// LoadObjectStorage loads the object storage domain.
func LoadObjectStorage(src Source) (ObjectStorage, error) {
	return load[ObjectStorage](DomainObjectStorage, objectStorageSchema, src)
}
