// Package catalog implements reading, writing, and flattening of nested
// locale message catalogs.
//
// A catalog file is named <locale-code>.json (or <locale-code>.yaml) and
// holds an arbitrarily nested object whose leaves are translatable strings
// or, rarely, non-string scalars that pass through untranslated:
//
//	{
//	    "_meta": { "name": "Français" },
//	    "menu": {
//	        "file": { "open": "Ouvrir {name}" }
//	    }
//	}
//
// Nested trees are addressed by dotted key paths ("menu.file.open").
// Serialization sorts keys so repeated writes produce stable diffs.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree is a nested locale catalog: values are either a nested Tree
// (as map[string]any) or a leaf scalar (string, number, bool, nil).
type Tree = map[string]any

// Parse parses JSON catalog data into a Tree.
func Parse(data []byte) (Tree, error) {
	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return tree, nil
}

// ParseFile reads and parses a catalog file. The format is chosen by
// extension: .yaml/.yml files are decoded as YAML, everything else as JSON.
func ParseFile(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if isYAML(path) {
		var tree Tree
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return tree, nil
	}

	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// Flatten converts a nested Tree into a flat mapping of dotted key paths
// to leaf values. A non-mapping value at the root (prefix empty) yields
// an empty result, since there is no path to assign it to.
func Flatten(tree Tree) map[string]any {
	flat := make(map[string]any)
	flattenInto(tree, "", flat)
	return flat
}

func flattenInto(node any, prefix string, out map[string]any) {
	sub, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			out[prefix] = node
		}
		return
	}
	for key, val := range sub {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		flattenInto(val, path, out)
	}
}

// Unflatten rebuilds a nested Tree from a flat dotted-path mapping.
// It is the inverse of Flatten for trees without mixed leaf/branch nodes.
func Unflatten(flat map[string]any) Tree {
	tree := make(Tree)
	for path, val := range flat {
		parts := strings.Split(path, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = val
	}
	return tree
}

// Set assigns a leaf value at a dotted path, creating intermediate
// branches as needed.
func Set(tree Tree, path string, value any) {
	parts := strings.Split(path, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

// SortedPaths returns the keys of a flat catalog in lexicographic order.
func SortedPaths(flat map[string]any) []string {
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Marshal serializes a Tree as JSON with sorted keys and 4-space
// indentation, matching the hand-maintained catalog style.
func Marshal(tree Tree) ([]byte, error) {
	var b strings.Builder
	if err := writeNode(&b, tree, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func writeNode(b *strings.Builder, node any, depth int) error {
	sub, ok := node.(map[string]any)
	if !ok {
		leaf, err := json.Marshal(node)
		if err != nil {
			return err
		}
		b.Write(leaf)
		return nil
	}

	keys := make([]string, 0, len(sub))
	for k := range sub {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("    ", depth+1)
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		b.WriteString(indent)
		name, err := json.Marshal(k)
		if err != nil {
			return err
		}
		b.Write(name)
		b.WriteString(": ")
		if err := writeNode(b, sub[k], depth+1); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("    ", depth))
	}
	b.WriteString("}")
	return nil
}

// WriteFile writes a catalog back to disk. YAML paths are encoded as
// YAML; everything else uses the sorted 4-space JSON form.
func WriteFile(path string, tree Tree) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(tree)
	} else {
		data, err = Marshal(tree)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Locales lists the locale codes present in a catalog directory, one per
// <locale>.json or <locale>.yaml file, sorted and deduplicated.
func Locales(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory: %w", err)
	}

	seen := make(map[string]bool)
	var locales []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		switch ext {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		code := strings.TrimSuffix(name, ext)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		locales = append(locales, code)
	}
	sort.Strings(locales)
	return locales, nil
}

// PathFor resolves the catalog file path for a locale, preferring an
// existing file (JSON first) and defaulting to <locale>.json.
func PathFor(dir, locale string) string {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, locale+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, locale+".json")
}
