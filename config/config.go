// Package config implements project layout detection: where the locale
// catalogs live, which directories hold application source, and which
// locale is the authority.
//
// When a .localekit.yaml file exists in the project root it is the sole
// source of truth; otherwise the layout is auto-detected from
// conventional directory names.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional explicit project configuration file.
const ProjectFileName = ".localekit.yaml"

// GuardrailsFileName is the default guardrails config file, resolved
// relative to the project root.
const GuardrailsFileName = "guardrails.json"

// Project holds the resolved project layout.
type Project struct {
	// Root is the absolute project root directory.
	Root string
	// CatalogDir is the directory containing <locale>.json files.
	CatalogDir string
	// SourceDirs are the directories scanned for catalog key usage.
	SourceDirs []string
	// SourceLocale is the authoritative locale code when .localekit.yaml
	// declares one; empty otherwise, leaving the choice to the guardrails
	// config.
	SourceLocale string
	// GuardrailsFile is the path to the guardrails config.
	GuardrailsFile string
}

// projectFile is the .localekit.yaml schema.
type projectFile struct {
	CatalogDir   string   `yaml:"catalog_dir"`
	SourceDirs   []string `yaml:"source_dirs,omitempty"`
	SourceLocale string   `yaml:"source_locale,omitempty"`
	Guardrails   string   `yaml:"guardrails,omitempty"`
}

// catalogDirCandidates are conventional catalog locations, checked in
// order.
var catalogDirCandidates = []string{
	filepath.Join("public", "translations"),
	filepath.Join("src", "locales"),
	"locales",
	"translations",
	"i18n",
}

// sourceDirCandidates are conventional application source locations.
var sourceDirCandidates = []string{"src", "client", "app", "lib"}

// Detect resolves the project layout under rootDir, preferring an
// explicit .localekit.yaml over auto-detection.
func Detect(rootDir string) (*Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{
		Root:           absRoot,
		GuardrailsFile: filepath.Join(absRoot, GuardrailsFileName),
	}

	if loaded, err := loadProjectFile(absRoot, p); err != nil {
		return nil, err
	} else if loaded {
		return p, nil
	}

	for _, candidate := range catalogDirCandidates {
		dir := filepath.Join(absRoot, candidate)
		if isDir(dir) {
			p.CatalogDir = dir
			break
		}
	}
	for _, candidate := range sourceDirCandidates {
		dir := filepath.Join(absRoot, candidate)
		if isDir(dir) {
			p.SourceDirs = append(p.SourceDirs, dir)
		}
	}
	if len(p.SourceDirs) == 0 {
		p.SourceDirs = []string{absRoot}
	}

	return p, nil
}

// loadProjectFile applies .localekit.yaml when present. Returns true if
// the file existed and was applied.
func loadProjectFile(absRoot string, p *Project) (bool, error) {
	path := filepath.Join(absRoot, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	if pf.CatalogDir == "" {
		return false, fmt.Errorf("%s: catalog_dir is required", path)
	}

	p.CatalogDir = resolve(absRoot, pf.CatalogDir)
	for _, dir := range pf.SourceDirs {
		p.SourceDirs = append(p.SourceDirs, resolve(absRoot, dir))
	}
	if len(p.SourceDirs) == 0 {
		p.SourceDirs = []string{absRoot}
	}
	if pf.SourceLocale != "" {
		p.SourceLocale = pf.SourceLocale
	}
	if pf.Guardrails != "" {
		p.GuardrailsFile = resolve(absRoot, pf.Guardrails)
	}
	return true, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
