// internal/envfile/envfile.go
//
// Environment selection and settings-file discovery.
//
// Context
// -------
// The process reads `APP_ENV` once at startup.  That name picks the
// settings file `<dir>/<env>.env`; when the file is absent the loader falls
// back to `<dir>/.env`.  The fallback is returned even if it does not exist
// either, because `internal/config` treats a missing file as an empty
// settings set and lets per-domain defaults and validation decide.
//
// Notes
// -----
//   - Locate touches the filesystem only through os.Stat.
//   - Oxford commas, two spaces after periods.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment is the deployment stage the process runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

// DefaultFile is the file tried when APP_ENV is unset.
const DefaultFile = string(Development) + ".env"

// FallbackFile is returned when the environment-specific file is missing.
const FallbackFile = ".env"

// Names lists the accepted environment names in a stable order.
func Names() []string {
	return []string{string(Development), string(Staging), string(Production), string(Test)}
}

// ParseEnvironment normalizes s.  An empty string means Development.
func ParseEnvironment(s string) (Environment, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Development, nil
	}
	for _, n := range Names() {
		if s == n {
			return Environment(n), nil
		}
	}
	return "", fmt.Errorf("unknown environment %q (want one of %s)", s, strings.Join(Names(), ", "))
}

// IsDevelopment reports whether e is the local development stage.
func (e Environment) IsDevelopment() bool { return e == Development }

func (e Environment) String() string { return string(e) }

// Locate returns the settings file for envName under baseDir.  An empty
// envName selects development.env.  It never fails.
func Locate(baseDir, envName string) string {
	name := DefaultFile
	if envName != "" {
		name = envName + ".env"
	}

	candidate := filepath.Join(baseDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return filepath.Join(baseDir, FallbackFile)
}
