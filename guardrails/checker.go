// Package guardrails composes catalog flattening, source key extraction,
// and placeholder comparison into a pass/fail consistency report.
//
// The source locale's catalog is the single authority for which keys
// should exist and what placeholders each carries. Structural drift and
// placeholder-set mismatches in other locales are errors. Source keys no
// static pass could find, and dynamic lookup expressions, are warnings
// only: dynamic access patterns can hide genuine usage from static
// analysis, so staleness is never allowed to fail a run.
package guardrails

import (
	"fmt"
	"os"
	"sort"

	"github.com/localekit/localekit/catalog"
	"github.com/localekit/localekit/extract"
	"github.com/localekit/localekit/placeholder"
)

// Mismatch records a placeholder-set difference for a key present in
// both the source and a target locale.
type Mismatch struct {
	Key    string
	Source []string
	Target []string
}

// LocaleReport holds the errors found for one target locale.
type LocaleReport struct {
	Locale                string
	MissingKeys           []string
	ExtraKeys             []string
	PlaceholderMismatches []Mismatch
}

// HasErrors reports whether the locale failed the check.
func (r *LocaleReport) HasErrors() bool {
	return len(r.MissingKeys) > 0 || len(r.ExtraKeys) > 0 || len(r.PlaceholderMismatches) > 0
}

// Report is the outcome of one guardrail run.
type Report struct {
	SourceLocale string
	Extraction   *extract.Result
	Locales      []LocaleReport

	// MissingFromSource are keys referenced by code with no declaration
	// in the source catalog. Errors.
	MissingFromSource []string
	// StaleKeys are declared source keys no extraction pass found,
	// minus the configured ignores. Warnings only.
	StaleKeys []string
}

// HasErrors reports the run's overall pass/fail outcome: the OR of all
// locales' error presence plus any code-referenced key missing from the
// source catalog.
func (r *Report) HasErrors() bool {
	if len(r.MissingFromSource) > 0 {
		return true
	}
	for i := range r.Locales {
		if r.Locales[i].HasErrors() {
			return true
		}
	}
	return false
}

// Checker runs guardrail checks for one catalog directory and source tree.
type Checker struct {
	Config Config
}

// Run loads the source catalog, extracts key usage from the source
// directories, and checks every locale in the restriction list (or
// every non-source locale present in catalogDir when the list is
// empty). A missing source catalog is fatal.
func (c *Checker) Run(catalogDir string, srcDirs []string, locales []string) (*Report, error) {
	sourcePath := catalog.PathFor(catalogDir, c.Config.SourceLocale)
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source catalog %s: %w", sourcePath, err)
	}
	sourceTree, err := catalog.ParseFile(sourcePath)
	if err != nil {
		return nil, err
	}
	sourceFlat := catalog.Flatten(sourceTree)

	known := make(map[string]bool, len(sourceFlat))
	for k := range sourceFlat {
		known[k] = true
	}

	extraction, err := extract.Scan(srcDirs, known)
	if err != nil {
		return nil, err
	}

	report := &Report{
		SourceLocale: c.Config.SourceLocale,
		Extraction:   extraction,
	}

	// Keys code references that the source catalog does not declare.
	for _, key := range extraction.StaticKeys {
		if !known[key] {
			report.MissingFromSource = append(report.MissingFromSource, key)
		}
	}

	// Declared keys no pass found, minus the configured ignores.
	used := extraction.UsedKeys()
	for _, key := range catalog.SortedPaths(sourceFlat) {
		if !used[key] && !c.Config.ignored(key) {
			report.StaleKeys = append(report.StaleKeys, key)
		}
	}

	if len(locales) == 0 {
		all, err := catalog.Locales(catalogDir)
		if err != nil {
			return nil, err
		}
		for _, loc := range all {
			if loc != c.Config.SourceLocale {
				locales = append(locales, loc)
			}
		}
	}
	sort.Strings(locales)

	for _, loc := range locales {
		lr, err := c.checkLocale(catalogDir, loc, sourceFlat)
		if err != nil {
			return nil, err
		}
		report.Locales = append(report.Locales, *lr)
	}

	return report, nil
}

// checkLocale flattens one target locale and evaluates it relative to
// the source: missing keys, extra keys, and placeholder drift on keys
// both sides hold as strings.
func (c *Checker) checkLocale(catalogDir, locale string, sourceFlat map[string]any) (*LocaleReport, error) {
	tree, err := catalog.ParseFile(catalog.PathFor(catalogDir, locale))
	if err != nil {
		return nil, err
	}
	flat := catalog.Flatten(tree)

	lr := &LocaleReport{Locale: locale}

	for _, key := range catalog.SortedPaths(sourceFlat) {
		localeVal, ok := flat[key]
		if !ok {
			lr.MissingKeys = append(lr.MissingKeys, key)
			continue
		}
		sourceText, sourceIsString := sourceFlat[key].(string)
		localeText, localeIsString := localeVal.(string)
		if !sourceIsString || !localeIsString {
			continue
		}
		if !placeholder.Equal(sourceText, localeText) {
			lr.PlaceholderMismatches = append(lr.PlaceholderMismatches, Mismatch{
				Key:    key,
				Source: placeholder.Collect(sourceText),
				Target: placeholder.Collect(localeText),
			})
		}
	}

	for _, key := range catalog.SortedPaths(flat) {
		if _, ok := sourceFlat[key]; !ok {
			lr.ExtraKeys = append(lr.ExtraKeys, key)
		}
	}

	return lr, nil
}
