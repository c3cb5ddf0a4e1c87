// Package extract statically recovers which catalog keys application
// source code actually references.
//
// Extraction is regex-based and layered: four independent passes run over
// every source file, each contributing to the result without
// short-circuiting the others. Literal lookups are recorded verbatim,
// template-literal lookups are generalized to wildcard patterns and
// resolved against the known key set, and genuinely dynamic lookups are
// surfaced as diagnostics rather than guessed at. No symbolic evaluation
// is attempted.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SupportedExtensions lists the source file types scanned for catalog
// key usage.
var SupportedExtensions = map[string]bool{
	".js":     true,
	".jsx":    true,
	".ts":     true,
	".tsx":    true,
	".mjs":    true,
	".cjs":    true,
	".vue":    true,
	".svelte": true,
}

// skipDirs contains directory names excluded from source scanning.
// Hidden directories (".git", ".svelte-kit", ...) are skipped by prefix.
var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"vendor":       true,
	"target":       true,
}

// Result holds the outcome of a scan. All key sequences are sorted and
// deduplicated.
type Result struct {
	// StaticKeys are keys referenced via a literal-quoted lookup argument.
	StaticKeys []string
	// TemplatePatterns are wildcard forms of template-literal lookups,
	// with each interpolation site replaced by "*".
	TemplatePatterns []string
	// TemplateResolvedKeys are known keys matched by a template pattern.
	TemplateResolvedKeys []string
	// VariableExpressions are unresolvable dynamic lookup arguments,
	// kept verbatim as a diagnostic signal.
	VariableExpressions []string
	// LiteralReferencedKeys are dotted string literals elsewhere in code
	// that happen to equal a known key.
	LiteralReferencedKeys []string
	// FilesScanned counts the source files visited.
	FilesScanned int
}

// The two recognized lookup call spellings are t(...) and $t(...), each
// guarded so that identifiers merely ending in "t" do not match.
const callPrefix = `(?:^|[^0-9A-Za-z_$.])`

var (
	staticCallRe   = regexp.MustCompile(callPrefix + `\$?t\(\s*(?:"([^"\\]*)"|'([^'\\]*)')`)
	templateCallRe = regexp.MustCompile(callPrefix + `\$?t\(\s*` + "`([^`]*)`")
	variableCallRe = regexp.MustCompile(callPrefix + `\$?t\(\s*([A-Za-z_$][0-9A-Za-z_$]*(?:\.[A-Za-z_$][0-9A-Za-z_$]*)*)\s*[,)]`)

	interpolationRe = regexp.MustCompile(`\$\{[^}]*\}`)
	dottedLiteralRe = regexp.MustCompile(`"([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)+)"|'([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)+)'`)
)

// collector accumulates deduplicated findings across files.
type collector struct {
	static    map[string]bool
	patterns  map[string]bool
	resolved  map[string]bool
	variables map[string]bool
	literals  map[string]bool
	files     int
}

func newCollector() *collector {
	return &collector{
		static:    make(map[string]bool),
		patterns:  make(map[string]bool),
		resolved:  make(map[string]bool),
		variables: make(map[string]bool),
		literals:  make(map[string]bool),
	}
}

// Scan walks the given roots for supported source files and extracts
// key usage against the known source-catalog key set. Files reachable
// from more than one root are scanned once.
func Scan(roots []string, knownKeys map[string]bool) (*Result, error) {
	c := newCollector()
	seen := make(map[string]bool)

	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				name := info.Name()
				if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
					return filepath.SkipDir
				}
				return nil
			}
			if !SupportedExtensions[filepath.Ext(path)] || seen[path] {
				return nil
			}
			seen[path] = true
			data, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			c.scanText(string(data), knownKeys)
			c.files++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	return c.result(), nil
}

// ScanText extracts key usage from a single source text. Exposed for
// callers that already hold file contents.
func ScanText(text string, knownKeys map[string]bool) *Result {
	c := newCollector()
	c.scanText(text, knownKeys)
	c.files = 1
	return c.result()
}

func (c *collector) scanText(text string, knownKeys map[string]bool) {
	// Pass 1: literal-quoted lookup arguments. Their quoted spans are
	// remembered so pass 4 does not re-report them as data literals.
	var callSpans [][2]int
	for _, m := range staticCallRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if start < 0 {
			start, end = m[4], m[5]
		}
		if key := text[start:end]; key != "" {
			c.static[key] = true
		}
		callSpans = append(callSpans, [2]int{start, end})
	}

	// Pass 2: template-literal lookup arguments. Templates without an
	// interpolation are plain static keys; the rest become wildcard
	// patterns resolved against the known key set.
	for _, m := range templateCallRe.FindAllStringSubmatch(text, -1) {
		tpl := m[1]
		if tpl == "" {
			continue
		}
		if !interpolationRe.MatchString(tpl) {
			c.static[tpl] = true
			continue
		}
		pattern := interpolationRe.ReplaceAllString(tpl, "*")
		c.patterns[pattern] = true
		matcher := compilePattern(pattern)
		for key := range knownKeys {
			if matcher.MatchString(key) {
				c.resolved[key] = true
			}
		}
	}

	// Pass 3: bare identifier or property-path arguments. Never resolved,
	// only surfaced so reviewers know static analysis is blind here.
	for _, m := range variableCallRe.FindAllStringSubmatch(text, -1) {
		c.variables[m[1]] = true
	}

	// Pass 4: dotted string literals outside lookup calls that equal a
	// known key, catching keys passed around as data.
	for _, m := range dottedLiteralRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if start < 0 {
			start, end = m[4], m[5]
		}
		if insideSpan(callSpans, start) {
			continue
		}
		if lit := text[start:end]; knownKeys[lit] {
			c.literals[lit] = true
		}
	}
}

func insideSpan(spans [][2]int, pos int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// compilePattern turns a wildcard key pattern into a matcher: literal
// segments are quoted, each "*" matches a run of non-separator characters.
func compilePattern(pattern string) *regexp.Regexp {
	segments := strings.Split(pattern, "*")
	for i, seg := range segments {
		segments[i] = regexp.QuoteMeta(seg)
	}
	return regexp.MustCompile(`^` + strings.Join(segments, `[^.]+`) + `$`)
}

func (c *collector) result() *Result {
	return &Result{
		StaticKeys:            sortedKeys(c.static),
		TemplatePatterns:      sortedKeys(c.patterns),
		TemplateResolvedKeys:  sortedKeys(c.resolved),
		VariableExpressions:   sortedKeys(c.variables),
		LiteralReferencedKeys: sortedKeys(c.literals),
		FilesScanned:          c.files,
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UsedKeys returns the union of all passes that resolve to concrete keys.
func (r *Result) UsedKeys() map[string]bool {
	used := make(map[string]bool)
	for _, list := range [][]string{r.StaticKeys, r.TemplateResolvedKeys, r.LiteralReferencedKeys} {
		for _, k := range list {
			used[k] = true
		}
	}
	return used
}
