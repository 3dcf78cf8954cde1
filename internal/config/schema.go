// internal/config/schema.go
//
// Declarative per-domain settings schema.
//
// Context
// -------
// Every domain lists the keys it owns as a Schema.  The loader uses the
// schema three ways: defaults seed the lowest koanf layer, the key set
// filters the environment overlay so domains never see each other's
// settings, and Kind drives type coercion before the tree is unmarshalled
// into the typed struct.
package config

import (
	"fmt"
	"strconv"
)

// Kind is the declared type of a setting.
type Kind int

const (
	String Kind = iota
	Int
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "number"
	case Bool:
		return "boolean"
	default:
		return "string"
	}
}

// coerce converts raw into the Go value for k.
func (k Kind) coerce(raw string) (any, error) {
	switch k {
	case Int:
		return strconv.Atoi(raw)
	case Bool:
		return strconv.ParseBool(raw)
	case String:
		return raw, nil
	}
	return nil, fmt.Errorf("unsupported kind %d", int(k))
}

// Setting describes one named key owned by a domain.  Normalize, when
// set, rewrites the raw value before coercion and validation.
type Setting struct {
	Key       string
	Kind      Kind
	Default   string
	Required  bool
	Normalize func(string) string
}

// Schema is the ordered list of settings a domain owns.
type Schema []Setting

func (s Schema) keys() map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for _, st := range s {
		out[st.Key] = struct{}{}
	}
	return out
}
