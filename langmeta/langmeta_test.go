package langmeta

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"pt_br": "pt-BR",
		"PT-BR": "pt-BR",
		"fr":    "fr",
		"EN-us": "en-US",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_BaseFallback(t *testing.T) {
	if m := Resolve("fr-CA"); m.Name != "French" {
		t.Fatalf("fr-CA should fall back to base French, got %#v", m)
	}
	if m := Resolve("zz-ZZ"); m.Name != "zz-ZZ" {
		t.Fatalf("unknown code should echo itself, got %#v", m)
	}
}

func TestSourceLang(t *testing.T) {
	if got := SourceLang("en-US"); got != "EN" {
		t.Fatalf("SourceLang(en-US) = %q", got)
	}
	if got := SourceLang("pt-BR"); got != "PT" {
		t.Fatalf("SourceLang(pt-BR) = %q", got)
	}
}

func TestTargetLang(t *testing.T) {
	cases := map[string]string{
		"pt-BR": "PT-BR",
		"pt":    "PT-PT",
		"fr-FR": "FR",
		"de":    "DE",
		"zh-CN": "ZH",
		"en-US": "EN-US",
		"xx":    "XX",
	}
	for in, want := range cases {
		if got := TargetLang(in); got != want {
			t.Fatalf("TargetLang(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("fr-FR"); got != "French (France) (fr-FR)" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := DisplayName("zz-ZZ"); got != "zz-ZZ" {
		t.Fatalf("DisplayName for unknown = %q", got)
	}
}
