package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/localekit/localekit/config"
	"github.com/localekit/localekit/lockfile"
	"github.com/localekit/localekit/translate"
)

func TestSplitLocales(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Fatalf("splitList(\"\") = %v", got)
	}
	got := splitList("fr-FR, de ,,pt-BR")
	want := []string{"fr-FR", "de", "pt-BR"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("short"); got != "****" {
		t.Fatalf("maskKey(short) = %q", got)
	}
	if got := maskKey("abcd1234efgh5678"); got != "abcd...5678" {
		t.Fatalf("maskKey = %q", got)
	}
}

func TestLoadGuardrails_ProjectFileLocaleWins(t *testing.T) {
	root := t.TempDir()
	guardrailsPath := filepath.Join(root, "guardrails.json")
	if err := os.WriteFile(guardrailsPath, []byte(`{"sourceLocale": "en-GB"}`), 0644); err != nil {
		t.Fatal(err)
	}

	// Without a .localekit.yaml locale the guardrails config decides.
	proj := &config.Project{Root: root}
	if cfg := loadGuardrails(proj, guardrailsPath); cfg.SourceLocale != "en-GB" {
		t.Fatalf("SourceLocale = %q, want en-GB", cfg.SourceLocale)
	}

	// A locale declared in .localekit.yaml overrides the config file.
	proj.SourceLocale = "de"
	if cfg := loadGuardrails(proj, guardrailsPath); cfg.SourceLocale != "de" {
		t.Fatalf("SourceLocale = %q, want de", cfg.SourceLocale)
	}

	// Neither set falls back to the built-in default.
	proj.SourceLocale = ""
	if cfg := loadGuardrails(proj, filepath.Join(root, "absent.json")); cfg.SourceLocale != "en-US" {
		t.Fatalf("SourceLocale = %q, want en-US", cfg.SourceLocale)
	}
}

func TestOutstandingPairs(t *testing.T) {
	baseFlat := map[string]any{
		"_meta.name": "English",
		"menu.open":  "Open {name}",
		"menu.save":  "Save",
		"menu.quit":  "Quit",
		"retries":    float64(3),
	}
	syncedFlat := map[string]any{
		"_meta.name": "English",
		"menu.open":  "[fr-FR] Open {name}", // untranslated marker
		"menu.save":  "Enregistrer",         // translated by hand
		"menu.quit":  "Quitter",             // machine-translated earlier
		"retries":    float64(3),
	}

	lock, err := lockfile.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	lock.Update("fr-FR", "menu.quit", "Exit") // source text has since changed to "Quit"

	pairs := outstandingPairs(baseFlat, syncedFlat, "fr-FR", lock, false)
	want := []translate.Pair{
		{Key: "menu.open", Text: "Open {name}"},
		{Key: "menu.quit", Text: "Quit"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("pairs = %v, want %v", pairs, want)
	}

	// rewriteExisting queues every translatable entry, still skipping
	// metadata and non-textual leaves.
	all := outstandingPairs(baseFlat, syncedFlat, "fr-FR", lock, true)
	if len(all) != 3 {
		t.Fatalf("rewriteExisting pairs = %v", all)
	}
	for _, p := range all {
		if p.Key == "_meta.name" || p.Key == "retries" {
			t.Fatalf("unexpected pair %v", p)
		}
	}
}
