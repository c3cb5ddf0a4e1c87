// Package i18n localizes localekit's own console output. The message
// catalogs under locales/ are compiled into the binary, and the active
// language is picked from the standard locale environment variables.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var catalogFS embed.FS

const domain = "localekit"

var po *gotext.Locale

// Init loads the embedded catalog for lang. An empty lang selects the
// language from LANGUAGE, LC_ALL, LC_MESSAGES, or LANG, first match
// wins. Call Init once, before any T or N call.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	po = gotext.NewLocaleFSWithPath(lang, catalogFS, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T returns the translation of msgid, or msgid itself when no loaded
// catalog covers it.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N selects between singular and plural by the active language's plural
// rules. Before Init it falls back to the English n == 1 rule.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage resolves the preferred language from the environment
// in gettext's priority order. LANGUAGE may carry a colon-separated
// preference list, of which only the first entry is honored; encoding
// suffixes like ".UTF-8" are stripped; the C and POSIX locales mean no
// translation.
func detectLanguage() string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(name)
		if name == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		switch val {
		case "", "C", "POSIX":
			continue
		}
		return val
	}
	return "en"
}
