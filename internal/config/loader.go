// internal/config/loader.go
//
// Per-domain configuration loader.
//
/*
Context
--------
Each domain builds its own koanf tree from three layers (highest
precedence last):

  1. Schema defaults.
  2. The settings file chosen by `internal/envfile` (dotenv syntax, parsed
     by godotenv).  A missing file is an empty layer, not an error.
  3. Process environment, restricted to the keys the domain owns.  An
     environment variable wins over the file even when it is empty.

The merged tree is then checked against the schema (required keys,
coercion to the declared Kind), unmarshalled into the domain's typed
struct, and run through the validator.  Every failure is returned as a
*ConfigurationError naming the domain and the key; nothing is deferred to
first use.

Instrumentation
---------------
  • DEBUG – file layer skipped or loaded, domain loaded.
  • ERROR – layer read failures and validation failures.
  • Logs use the global sugared logger (`zap.S()`) because domains load
    before the file logger may exist.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Source is the settings file a domain loads from.  Path may name a file
// that does not exist.
type Source struct {
	Path string
}

/*──────────────────────────── dotenv parser ───────────────────────────────*/

// dotenvParser lets koanf read KEY=value files through godotenv.
type dotenvParser struct{}

func (dotenvParser) Unmarshal(b []byte) (map[string]any, error) {
	kv, err := godotenv.Unmarshal(string(b))
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(kv))
	for k, val := range kv {
		out[k] = val
	}
	return out, nil
}

func (dotenvParser) Marshal(m map[string]any) ([]byte, error) {
	kv := make(map[string]string, len(m))
	for k, val := range m {
		kv[k] = fmt.Sprint(val)
	}
	s, err := godotenv.Marshal(kv)
	return []byte(s), err
}

/*─────────────────────────────── layering ─────────────────────────────────*/

func (s Source) layer(domain string, schema Schema) (*koanf.Koanf, error) {
	k := koanf.New(".")

	for _, st := range schema {
		if st.Default == "" {
			continue
		}
		if err := k.Set(st.Key, st.Default); err != nil {
			return nil, err
		}
	}

	if s.Path != "" {
		_, err := os.Stat(s.Path)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(s.Path), dotenvParser{}); err != nil {
				zap.S().Errorw("config file load failed", "domain", domain, "file", s.Path, "err", err)
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
			zap.S().Debugw("config file absent, using environment only", "domain", domain, "file", s.Path)
		default:
			return nil, err
		}
	}

	// Only the domain's own keys are taken from the process environment.
	owned := schema.keys()
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if _, ok := owned[key]; !ok {
			return "", nil
		}
		return key, value
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "domain", domain, "err", err)
		return nil, err
	}

	return k, nil
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// load layers, coerces, unmarshals, and validates one domain into T.
func load[T any](domain string, schema Schema, src Source) (T, error) {
	var out T

	k, err := src.layer(domain, schema)
	if err != nil {
		return out, &ConfigurationError{Domain: domain, Reason: "read settings", Err: err}
	}

	for _, st := range schema {
		raw := strings.TrimSpace(k.String(st.Key))
		if raw == "" {
			raw = st.Default
		}
		if raw != "" && st.Normalize != nil {
			raw = st.Normalize(raw)
		}
		if raw == "" {
			if st.Required {
				return out, &ConfigurationError{Domain: domain, Key: st.Key, Reason: "required setting is missing"}
			}
			k.Delete(st.Key)
			continue
		}

		val, err := st.Kind.coerce(raw)
		if err != nil {
			return out, &ConfigurationError{
				Domain: domain,
				Key:    st.Key,
				Reason: fmt.Sprintf("expected a %s", st.Kind),
				Err:    err,
			}
		}
		if err := k.Set(st.Key, val); err != nil {
			return out, &ConfigurationError{Domain: domain, Key: st.Key, Reason: "store value", Err: err}
		}
	}

	if err := k.Unmarshal("", &out); err != nil {
		zap.S().Errorw("config unmarshal failed", "domain", domain, "err", err)
		return out, &ConfigurationError{Domain: domain, Reason: "unmarshal", Err: err}
	}

	if err := validateStruct(domain, &out); err != nil {
		zap.S().Errorw("config validation failed", "domain", domain, "err", err)
		return out, err
	}

	zap.S().Debugw("config domain loaded", "domain", domain, "file", src.Path)
	return out, nil
}
