// Package langmeta provides a shared locale metadata registry: display
// names for CLI reporting and the language codes the translation service
// expects on each side of a request.
package langmeta

import "strings"

// Meta describes locale display and transport metadata.
type Meta struct {
	// Name is the English display name.
	Name string
	// Target is the service-side target language code, when it differs
	// from the uppercased base code (e.g. "pt-BR" -> "PT-BR").
	Target string
}

// Registry contains canonical locale metadata keyed by normalized code.
// Variants are resolved in Resolve via normalization and base fallback.
var Registry = map[string]Meta{
	"bg":    {Name: "Bulgarian"},
	"cs":    {Name: "Czech"},
	"da":    {Name: "Danish"},
	"de":    {Name: "German"},
	"el":    {Name: "Greek"},
	"en":    {Name: "English", Target: "EN-US"},
	"en-GB": {Name: "English (UK)", Target: "EN-GB"},
	"en-US": {Name: "English (US)", Target: "EN-US"},
	"es":    {Name: "Spanish"},
	"et":    {Name: "Estonian"},
	"fi":    {Name: "Finnish"},
	"fr":    {Name: "French"},
	"fr-FR": {Name: "French (France)", Target: "FR"},
	"hu":    {Name: "Hungarian"},
	"id":    {Name: "Indonesian"},
	"it":    {Name: "Italian"},
	"ja":    {Name: "Japanese"},
	"ko":    {Name: "Korean"},
	"lt":    {Name: "Lithuanian"},
	"lv":    {Name: "Latvian"},
	"nb":    {Name: "Norwegian Bokmål"},
	"nl":    {Name: "Dutch"},
	"pl":    {Name: "Polish"},
	"pt":    {Name: "Portuguese", Target: "PT-PT"},
	"pt-BR": {Name: "Portuguese (Brazil)", Target: "PT-BR"},
	"pt-PT": {Name: "Portuguese (Portugal)", Target: "PT-PT"},
	"ro":    {Name: "Romanian"},
	"ru":    {Name: "Russian"},
	"sk":    {Name: "Slovak"},
	"sl":    {Name: "Slovenian"},
	"sv":    {Name: "Swedish"},
	"tr":    {Name: "Turkish"},
	"uk":    {Name: "Ukrainian"},
	"zh":    {Name: "Chinese"},
	"zh-CN": {Name: "Chinese (Simplified)", Target: "ZH"},
	"zh-TW": {Name: "Chinese (Traditional)", Target: "ZH"},
}

// Normalize canonicalizes a locale code: lowercase language, uppercase
// region, "-" separator ("pt_br" -> "pt-BR").
func Normalize(code string) string {
	code = strings.ReplaceAll(code, "_", "-")
	lang, region, found := strings.Cut(code, "-")
	lang = strings.ToLower(lang)
	if !found {
		return lang
	}
	return lang + "-" + strings.ToUpper(region)
}

// Base returns the bare language part of a locale code ("pt-BR" -> "pt").
func Base(code string) string {
	lang, _, _ := strings.Cut(Normalize(code), "-")
	return lang
}

// Resolve returns metadata for a locale code, falling back to the base
// language and finally to the code itself as the display name.
func Resolve(code string) Meta {
	norm := Normalize(code)
	if m, ok := Registry[norm]; ok {
		return m
	}
	if m, ok := Registry[Base(code)]; ok {
		return m
	}
	return Meta{Name: code}
}

// DisplayName returns a human-readable label like "French (fr-FR)".
func DisplayName(code string) string {
	m := Resolve(code)
	if m.Name == code {
		return code
	}
	return m.Name + " (" + code + ")"
}

// SourceLang returns the service-side source language code for a locale:
// the uppercased base language ("en-US" -> "EN").
func SourceLang(code string) string {
	return strings.ToUpper(Base(code))
}

// TargetLang returns the service-side target language code for a locale.
// Region-qualified targets the service distinguishes are preserved;
// everything else collapses to the uppercased base language.
func TargetLang(code string) string {
	if m := Resolve(code); m.Target != "" {
		return m.Target
	}
	return strings.ToUpper(Base(code))
}
