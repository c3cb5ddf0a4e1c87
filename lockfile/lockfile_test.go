package lockfile

import (
	"testing"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(lf.Checksums) != 0 {
		t.Fatalf("expected empty checksums, got %#v", lf.Checksums)
	}
	if lf.Version != Version {
		t.Fatalf("Version = %d", lf.Version)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	lf.Update("fr-FR", "menu.open", "Open {name}")
	lf.Update("de", "menu.open", "Open {name}")
	if err := lf.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if reloaded.Checksums["fr-FR"]["menu.open"] != Hash("Open {name}") {
		t.Fatalf("checksum lost on reload: %#v", reloaded.Checksums)
	}
}

func TestDrifted_Semantics(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Never machine-translated: not drifted, regardless of text.
	if lf.Drifted("fr-FR", "menu.open", "Open") {
		t.Fatal("unrecorded key reported drifted")
	}

	lf.Update("fr-FR", "menu.open", "Open")
	if lf.Drifted("fr-FR", "menu.open", "Open") {
		t.Fatal("unchanged source reported drifted")
	}
	if !lf.Drifted("fr-FR", "menu.open", "Open file") {
		t.Fatal("changed source not reported drifted")
	}
	// Other locales keep independent records.
	if lf.Drifted("de", "menu.open", "Open file") {
		t.Fatal("drift leaked across locales")
	}
}

func TestClean_DropsRemovedKeys(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	lf.Update("fr-FR", "menu.open", "Open")
	lf.Update("fr-FR", "menu.gone", "Gone")

	lf.Clean("fr-FR", []string{"menu.open"})
	if _, ok := lf.Checksums["fr-FR"]["menu.gone"]; ok {
		t.Fatal("removed key survived Clean")
	}
	if _, ok := lf.Checksums["fr-FR"]["menu.open"]; !ok {
		t.Fatal("current key dropped by Clean")
	}
}
