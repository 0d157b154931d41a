package matchapi

import (
	"io"

	"gopkg.in/yaml.v2"
)

// LoadMatchingConfig reads a YAML-encoded MatchingConfig, starting from
// DefaultMatchingConfig so a file that only overrides a couple of
// weights still ends up with sane values for the rest, then validates
// the result the same way defineMissing feeds into validation in the
// teacher's config loader.
func LoadMatchingConfig(r io.Reader) (MatchingConfig, error) {
	cfg := DefaultMatchingConfig()

	raw, err := io.ReadAll(r)
	if err != nil {
		return MatchingConfig{}, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return MatchingConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return MatchingConfig{}, err
	}
	return cfg, nil
}
