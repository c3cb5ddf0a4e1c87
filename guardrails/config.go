package guardrails

import (
	"encoding/json"
	"os"
	"strings"
)

// Config governs which declared-but-unused source keys are suppressed
// from staleness warnings, and which locale is the authority.
type Config struct {
	SourceLocale             string   `json:"sourceLocale"`
	IgnoredUnusedKeyPrefixes []string `json:"ignoredUnusedKeyPrefixes"`
	IgnoredUnusedKeys        []string `json:"ignoredUnusedKeys"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SourceLocale:             "en-US",
		IgnoredUnusedKeyPrefixes: []string{"_meta."},
		IgnoredUnusedKeys:        []string{},
	}
}

// LoadConfig reads a guardrails config file. A missing or unreadable
// file silently falls back to defaults; fields absent from the file keep
// their default values.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var parsed struct {
		SourceLocale             *string   `json:"sourceLocale"`
		IgnoredUnusedKeyPrefixes *[]string `json:"ignoredUnusedKeyPrefixes"`
		IgnoredUnusedKeys        *[]string `json:"ignoredUnusedKeys"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return cfg
	}
	if parsed.SourceLocale != nil && *parsed.SourceLocale != "" {
		cfg.SourceLocale = *parsed.SourceLocale
	}
	if parsed.IgnoredUnusedKeyPrefixes != nil {
		cfg.IgnoredUnusedKeyPrefixes = *parsed.IgnoredUnusedKeyPrefixes
	}
	if parsed.IgnoredUnusedKeys != nil {
		cfg.IgnoredUnusedKeys = *parsed.IgnoredUnusedKeys
	}
	return cfg
}

// ignored reports whether a source key is suppressed from staleness
// warnings by prefix or exact match.
func (c Config) ignored(key string) bool {
	for _, exact := range c.IgnoredUnusedKeys {
		if key == exact {
			return true
		}
	}
	for _, prefix := range c.IgnoredUnusedKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
