package config

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestDetect_ConventionalLayout(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "public", "translations"))
	mkdir(t, filepath.Join(root, "src"))
	mkdir(t, filepath.Join(root, "lib"))

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if p.CatalogDir != filepath.Join(root, "public", "translations") {
		t.Fatalf("CatalogDir = %q", p.CatalogDir)
	}
	if len(p.SourceDirs) != 2 {
		t.Fatalf("SourceDirs = %v", p.SourceDirs)
	}
	// Only .localekit.yaml can declare the source locale.
	if p.SourceLocale != "" {
		t.Fatalf("SourceLocale = %q, want empty", p.SourceLocale)
	}
	if p.GuardrailsFile != filepath.Join(root, "guardrails.json") {
		t.Fatalf("GuardrailsFile = %q", p.GuardrailsFile)
	}
}

func TestDetect_CandidateOrder(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "locales"))
	mkdir(t, filepath.Join(root, "src", "locales"))

	p, err := Detect(root)
	if err != nil {
		t.Fatal(err)
	}
	if p.CatalogDir != filepath.Join(root, "src", "locales") {
		t.Fatalf("expected src/locales to win, got %q", p.CatalogDir)
	}
}

func TestDetect_NoCatalogDir(t *testing.T) {
	p, err := Detect(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if p.CatalogDir != "" {
		t.Fatalf("CatalogDir = %q, want empty", p.CatalogDir)
	}
	// With no conventional source dirs, the root itself is scanned.
	if len(p.SourceDirs) != 1 || p.SourceDirs[0] != p.Root {
		t.Fatalf("SourceDirs = %v", p.SourceDirs)
	}
}

func TestDetect_ProjectFile(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "i18n"))
	content := `catalog_dir: web/messages
source_dirs:
  - web/src
source_locale: en-GB
guardrails: ci/guardrails.json
`
	if err := os.WriteFile(filepath.Join(root, ProjectFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	// Explicit config wins over the detected i18n/ directory.
	if p.CatalogDir != filepath.Join(root, "web", "messages") {
		t.Fatalf("CatalogDir = %q", p.CatalogDir)
	}
	if len(p.SourceDirs) != 1 || p.SourceDirs[0] != filepath.Join(root, "web", "src") {
		t.Fatalf("SourceDirs = %v", p.SourceDirs)
	}
	if p.SourceLocale != "en-GB" {
		t.Fatalf("SourceLocale = %q", p.SourceLocale)
	}
	if p.GuardrailsFile != filepath.Join(root, "ci", "guardrails.json") {
		t.Fatalf("GuardrailsFile = %q", p.GuardrailsFile)
	}
}

func TestDetect_ProjectFileRequiresCatalogDir(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ProjectFileName), []byte("source_locale: en\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Detect(root); err == nil {
		t.Fatal("expected error for project file without catalog_dir")
	}
}
