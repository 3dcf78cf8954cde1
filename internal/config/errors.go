package config

import "fmt"

// ConfigurationError reports a domain setting that is missing or invalid.
// It is always fatal at startup.
type ConfigurationError struct {
	Domain string
	Key    string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config %s: %s", e.Domain, e.Reason)
	}
	return fmt.Sprintf("config %s: %s: %s", e.Domain, e.Key, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
