// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target. Fields absent from the file keep the
// values target already holds, so callers pass a struct pre-filled with
// defaults. Unknown keys are rejected. ${VAR} and ${VAR:-default} are expanded
// before parsing.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", filename, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse %s: %w", filename, err)
	}

	return validate(target)
}

// LoadOptional behaves like Load but treats an empty filename or a missing
// file as "use the defaults in target".
func LoadOptional[T any](filename string, target *T) error {
	if filename == "" {
		return validate(target)
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return validate(target)
	}
	return Load(filename, target)
}

func validate(target any) error {
	if validator, ok := target.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config: validation failed: %w", err)
		}
	}
	return nil
}

// ExpandEnv replaces ${VAR} and $VAR with environment values. ${VAR:-def}
// falls back to def when VAR is unset or empty.
func ExpandEnv(s string) string {
	return os.Expand(s, func(name string) string {
		key, def, hasDefault := strings.Cut(name, ":-")
		if v := os.Getenv(key); v != "" || !hasDefault {
			return v
		}
		return def
	})
}
