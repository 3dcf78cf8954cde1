// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `load` calls `validateStruct` after the merged koanf tree has been
// coerced and unmarshalled.  Field names are reported by their `koanf`
// tag, which is the environment variable name, so a failure reads
// `config database: DB_PORT: must satisfy max=65535` rather than naming a
// Go struct field.
//
// Notes
// -----
//   - Only the first failing field is reported.  Startup aborts on it
//     anyway.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// validateStruct maps the first validation failure to a ConfigurationError.
func validateStruct(domain string, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "must satisfy " + fe.Tag()
		if fe.Param() != "" {
			reason = fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return &ConfigurationError{Domain: domain, Key: fe.Field(), Reason: reason, Err: err}
	}
	return &ConfigurationError{Domain: domain, Reason: "validation", Err: err}
}
