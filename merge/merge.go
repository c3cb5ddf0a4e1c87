// Package merge reshapes a target locale catalog to structurally match
// the authoritative source catalog, equivalent to msgmerge for nested
// JSON trees.
//
// The result always has the source's branch structure. Existing target
// translations are never discarded; keys the source no longer declares
// are pruned (or kept verbatim with keepExtra) and every addition or
// removal is recorded as a dotted path for reporting.
package merge

import (
	"strings"

	"github.com/localekit/localekit/catalog"
)

// Stats accumulates the dotted paths added to and removed from a target
// catalog during one synchronization pass.
type Stats struct {
	Added   []string
	Removed []string
}

// MetaBranch is the reserved metadata branch; its leaves are copied from
// the source verbatim instead of being tagged for translation.
const MetaBranch = "_meta"

// untranslatedTag builds the visible marker prepended to source text when
// a leaf has no translation yet, e.g. "[fr-FR] Save file".
func untranslatedTag(locale string) string {
	return "[" + locale + "] "
}

// IsUntranslated reports whether a leaf value is a synthesized
// untranslated marker for the given locale.
func IsUntranslated(value any, locale string) bool {
	s, ok := value.(string)
	return ok && strings.HasPrefix(s, untranslatedTag(locale))
}

// SourceText strips the untranslated marker, returning the original
// source text a synthesized leaf was derived from.
func SourceText(value any, locale string) string {
	s, _ := value.(string)
	return strings.TrimPrefix(s, untranslatedTag(locale))
}

// Sync returns a new tree shaped exactly like base. Content is
// target-preferred: an existing target leaf always wins, even on type
// drift. Missing textual leaves outside the metadata branch are
// synthesized as tagged untranslated copies of the source text; missing
// non-textual leaves are copied from base verbatim. Target keys absent
// from base are kept when keepExtra is set, otherwise dropped and
// recorded in stats.Removed. Inputs are not mutated.
func Sync(base, target catalog.Tree, locale, prefix string, stats *Stats, keepExtra bool) catalog.Tree {
	out := make(catalog.Tree, len(base))

	for key, baseVal := range base {
		path := joinPath(prefix, key)
		targetVal, present := target[key]
		if !present {
			stats.Added = append(stats.Added, path)
		}
		out[key] = syncValue(baseVal, targetVal, present, locale, path, stats, keepExtra)
	}

	for key, targetVal := range target {
		if _, ok := base[key]; ok {
			continue
		}
		path := joinPath(prefix, key)
		if keepExtra {
			out[key] = targetVal
		} else {
			stats.Removed = append(stats.Removed, path)
		}
	}

	return out
}

func syncValue(baseVal, targetVal any, present bool, locale, path string, stats *Stats, keepExtra bool) any {
	baseBranch, baseIsBranch := baseVal.(map[string]any)
	if baseIsBranch {
		targetBranch, _ := targetVal.(map[string]any)
		return Sync(baseBranch, targetBranch, locale, path, stats, keepExtra)
	}

	// Base is a leaf. An existing translation always wins, even when its
	// runtime type drifted from the source's.
	if present {
		return targetVal
	}

	text, isText := baseVal.(string)
	if !isText || underMeta(path) {
		return baseVal
	}
	return untranslatedTag(locale) + text
}

func underMeta(path string) bool {
	return path == MetaBranch || strings.HasPrefix(path, MetaBranch+".")
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
