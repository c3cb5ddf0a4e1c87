// Package settings stores the translation service credential and resolves
// the service endpoint.
//
// The credential is stored in the XDG data directory:
//
//	$XDG_DATA_HOME/localekit/auth.json  (default: ~/.local/share/localekit/)
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for the API key:
//  1. --api-key flag (highest priority)
//  2. DEEPL_AUTH_KEY environment variable
//  3. This credential store
//
// The endpoint honors DEEPL_API_URL when set; otherwise keys carrying the
// ":fx" suffix route to the free-tier endpoint, all others to the paid one.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirName = "localekit"
	fileName    = "auth.json"

	// EnvAPIKey and EnvEndpoint are the environment overrides.
	EnvAPIKey   = "DEEPL_AUTH_KEY"
	EnvEndpoint = "DEEPL_API_URL"

	freeEndpoint = "https://api-free.deepl.com/v2/translate"
	proEndpoint  = "https://api.deepl.com/v2/translate"
)

// Auth is the on-disk credential record.
type Auth struct {
	Key string `json:"key,omitempty"`
}

func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the stored credential. Returns the zero Auth if the file is
// missing or invalid.
func Load() Auth {
	path, err := filePath()
	if err != nil {
		return Auth{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Auth{}
	}
	var auth Auth
	if err := json.Unmarshal(data, &auth); err != nil {
		return Auth{}
	}
	return auth
}

// Save writes the credential to disk with 0600 permissions.
func Save(auth Auth) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Clear removes the stored credential file.
func Clear() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the effective API key: flag value, then the
// environment, then the credential store. Empty when none is configured.
func ResolveAPIKey(flagKey string) string {
	if flagKey != "" {
		return flagKey
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return Load().Key
}

// ResolveEndpoint returns the translation endpoint for a key, honoring
// the environment override.
func ResolveEndpoint(key string) string {
	if url := os.Getenv(EnvEndpoint); url != "" {
		return url
	}
	if strings.HasSuffix(key, ":fx") {
		return freeEndpoint
	}
	return proEndpoint
}
