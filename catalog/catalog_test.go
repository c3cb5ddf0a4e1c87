package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFlatten_NestedTree(t *testing.T) {
	tree := Tree{
		"menu": map[string]any{
			"file": map[string]any{
				"open": "Open {name}",
				"save": "Save",
			},
		},
		"count": float64(3),
	}

	flat := Flatten(tree)
	want := map[string]any{
		"menu.file.open": "Open {name}",
		"menu.file.save": "Save",
		"count":          float64(3),
	}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("unexpected flat catalog: %#v", flat)
	}
}

func TestFlatten_EmptyAndNonMapRoot(t *testing.T) {
	if got := Flatten(Tree{}); len(got) != 0 {
		t.Fatalf("expected empty result for empty tree, got %#v", got)
	}
	// A non-mapping root has no path to assign.
	flat := make(map[string]any)
	flattenInto("just a string", "", flat)
	if len(flat) != 0 {
		t.Fatalf("expected empty result for non-map root, got %#v", flat)
	}
}

func TestUnflatten_InvertsFlatten(t *testing.T) {
	tree := Tree{
		"a": map[string]any{
			"b": map[string]any{"c": "leaf", "d": true},
		},
		"x": map[string]any{"y": nil},
	}

	rebuilt := Unflatten(Flatten(tree))
	if !reflect.DeepEqual(rebuilt, tree) {
		t.Fatalf("round trip changed the tree:\n got %#v\nwant %#v", rebuilt, tree)
	}
}

func TestSet_CreatesBranches(t *testing.T) {
	tree := Tree{}
	Set(tree, "a.b.c", "hello")
	Set(tree, "a.b.d", "world")

	flat := Flatten(tree)
	if flat["a.b.c"] != "hello" || flat["a.b.d"] != "world" {
		t.Fatalf("unexpected tree after Set: %#v", flat)
	}
}

func TestMarshal_SortedAndStable(t *testing.T) {
	tree := Tree{
		"zebra": "z",
		"apple": map[string]any{"pie": "p"},
	}

	out1, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	out2, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out1) != string(out2) {
		t.Fatal("Marshal output is not stable")
	}

	s := string(out1)
	if strings.Index(s, `"apple"`) > strings.Index(s, `"zebra"`) {
		t.Fatalf("keys not sorted:\n%s", s)
	}
	if !strings.Contains(s, "    \"apple\"") {
		t.Fatalf("expected 4-space indentation:\n%s", s)
	}

	// Output must parse back to the same tree.
	parsed, err := Parse(out1)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !reflect.DeepEqual(parsed, tree) {
		t.Fatalf("marshal/parse round trip changed the tree: %#v", parsed)
	}
}

func TestParseFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "de.yaml")
	data := "menu:\n  open: Öffnen\ncount: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	tree, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	flat := Flatten(tree)
	if flat["menu.open"] != "Öffnen" {
		t.Fatalf("unexpected YAML tree: %#v", flat)
	}
}

func TestWriteFile_YAMLDispatch(t *testing.T) {
	dir := t.TempDir()
	tree := Tree{"menu": map[string]any{"open": "Öffnen"}}

	for _, name := range []string{"de.yaml", "de.yml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, tree); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			t.Fatalf("%s was written as JSON:\n%s", name, data)
		}
		got, err := ParseFile(path)
		if err != nil {
			t.Fatalf("ParseFile(%s) error: %v", name, err)
		}
		if !reflect.DeepEqual(got, tree) {
			t.Fatalf("%s round trip changed the tree: %#v", name, got)
		}
	}
}

func TestLocales_ListsAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fr-FR.json", "de.yaml", "en-US.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	locales, err := Locales(dir)
	if err != nil {
		t.Fatalf("Locales error: %v", err)
	}
	want := []string{"de", "en-US", "fr-FR"}
	if !reflect.DeepEqual(locales, want) {
		t.Fatalf("unexpected locales: %v", locales)
	}
}

func TestPathFor_PrefersExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := PathFor(dir, "de"); got != filepath.Join(dir, "de.yaml") {
		t.Fatalf("expected existing yaml path, got %s", got)
	}
	if got := PathFor(dir, "fr-FR"); got != filepath.Join(dir, "fr-FR.json") {
		t.Fatalf("expected default json path, got %s", got)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "fr-FR.json")
	tree := Tree{"a": map[string]any{"b": "c"}}

	if err := WriteFile(path, tree); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if !reflect.DeepEqual(got, tree) {
		t.Fatalf("round trip changed the tree: %#v", got)
	}
}
