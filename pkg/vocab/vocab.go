// Package vocab decodes the static word lists used by the locale and image
// heuristics. Lists ship as embedded JSON5 documents and may be overridden
// by a file on disk, whose non-empty fields replace the defaults.
package vocab

import (
	"fmt"
	"log/slog"
	"os"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Decode unmarshals the embedded defaults into T and, when overridePath is
// set, merges the override file on top of them.
func Decode[T any](defaults []byte, overridePath string) (T, error) {
	var out T
	if err := json5.Unmarshal(defaults, &out); err != nil {
		return out, fmt.Errorf("decode default vocabulary: %w", err)
	}
	if overridePath == "" {
		return out, nil
	}

	raw, err := os.ReadFile(overridePath)
	if os.IsNotExist(err) {
		slog.Warn("vocabulary override not found, using defaults", "path", overridePath)
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read vocabulary override: %w", err)
	}

	var override T
	if err := json5.Unmarshal(raw, &override); err != nil {
		return out, fmt.Errorf("decode vocabulary override %s: %w", overridePath, err)
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return out, fmt.Errorf("merge vocabulary override: %w", err)
	}
	slog.Info("merged vocabulary override", "path", overridePath)
	return out, nil
}

// MustDecode is Decode for embedded defaults that are known to be valid.
func MustDecode[T any](defaults []byte) T {
	out, err := Decode[T](defaults, "")
	if err != nil {
		panic(err)
	}
	return out
}
