// Package lockfile implements localekit.lock — a lock file that tracks
// MD5 checksums of source text per locale and key. This is what makes a
// translation "stale": when the source catalog's text for a key changes
// after the key was machine-translated, the recorded checksum no longer
// matches and the key is queued for retranslation.
//
// The lock file lives next to the catalog directory as localekit.lock.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "localekit.lock"

// Version is the lock file format version.
const Version = 1

// LockFile represents the localekit.lock file structure.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"` // locale -> key -> md5

	path string `yaml:"-"`
}

// Load reads a lock file from the given directory. Returns an empty lock
// file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path
	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}
	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// Drifted reports whether a key's source text changed since it was last
// machine-translated for a locale. Keys with no recorded checksum are
// not drifted: entries translated by hand are never queued on the lock
// file's account.
func (lf *LockFile) Drifted(locale, key, sourceText string) bool {
	keys, ok := lf.Checksums[locale]
	if !ok {
		return false
	}
	old, ok := keys[key]
	if !ok {
		return false
	}
	return old != Hash(sourceText)
}

// Update records the source checksum of a key after successful translation.
func (lf *LockFile) Update(locale, key, sourceText string) {
	if lf.Checksums[locale] == nil {
		lf.Checksums[locale] = make(map[string]string)
	}
	lf.Checksums[locale][key] = Hash(sourceText)
}

// Clean drops recorded checksums for keys the source catalog no longer
// declares, preventing stale entries from accumulating.
func (lf *LockFile) Clean(locale string, currentKeys []string) {
	existing := lf.Checksums[locale]
	if existing == nil {
		return
	}
	valid := make(map[string]bool, len(currentKeys))
	for _, k := range currentKeys {
		valid[k] = true
	}
	for k := range existing {
		if !valid[k] {
			delete(existing, k)
		}
	}
}
