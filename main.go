// localekit — Locale Kit: JSON message-catalog guardrails with machine translation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/localekit/localekit/catalog"
	"github.com/localekit/localekit/config"
	"github.com/localekit/localekit/guardrails"
	"github.com/localekit/localekit/i18n"
	"github.com/localekit/localekit/langmeta"
	"github.com/localekit/localekit/lockfile"
	"github.com/localekit/localekit/merge"
	"github.com/localekit/localekit/settings"
	"github.com/localekit/localekit/translate"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "localekit",
		Short: "Locale Kit: JSON message-catalog guardrails with machine translation",
		Long: `localekit — Locale Kit: JSON message-catalog guardrails with machine translation.

Keeps a directory of <locale>.json message catalogs consistent with each
other and with the catalog keys your application code actually uses, and
machine-translates missing or stale entries while protecting {placeholder}
interpolations from the translator.

Commands:
  status      Show per-locale translation statistics
  check       Run consistency guardrails (structure, placeholders, usage)
  sync        Reshape locale catalogs to match the source catalog
  translate   Machine-translate untranslated and stale entries
  auth        Manage the translation service credential

The source catalog (default en-US.json) is the single authority for which
keys exist and which placeholders each carries. Configuration is read from
guardrails.json and, optionally, .localekit.yaml in the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newCheckCmd(),
		newSyncCmd(),
		newTranslateCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("localekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// detectProject resolves the project layout or fails with a usable hint.
func detectProject() (*config.Project, error) {
	proj, err := config.Detect(rootDir)
	if err != nil {
		return nil, err
	}
	if proj.CatalogDir == "" {
		return nil, fmt.Errorf("%s (looked for public/translations, src/locales, locales, translations, i18n under %s)",
			i18n.T("No catalog directory found"), proj.Root)
	}
	return proj, nil
}

// loadGuardrails loads the guardrails config, with a source locale
// declared in .localekit.yaml taking precedence over the config file.
func loadGuardrails(proj *config.Project, path string) guardrails.Config {
	cfg := guardrails.LoadConfig(path)
	if proj.SourceLocale != "" {
		cfg.SourceLocale = proj.SourceLocale
	}
	return cfg
}

// splitList parses a comma-separated flag value, dropping empty parts.
func splitList(flag string) []string {
	if flag == "" {
		return nil
	}
	var locales []string
	for _, part := range strings.Split(flag, ",") {
		if part = strings.TrimSpace(part); part != "" {
			locales = append(locales, part)
		}
	}
	return locales
}

// targetLocales returns the locales to process in stable sorted order:
// the --locale restriction when given, otherwise every catalog in the
// directory except the source.
func targetLocales(proj *config.Project, sourceLocale, localeFlag string) ([]string, error) {
	if restricted := splitList(localeFlag); restricted != nil {
		sort.Strings(restricted)
		return restricted, nil
	}
	all, err := catalog.Locales(proj.CatalogDir)
	if err != nil {
		return nil, err
	}
	var locales []string
	for _, loc := range all {
		if loc != sourceLocale {
			locales = append(locales, loc)
		}
	}
	return locales, nil
}

// loadSource loads and flattens the authoritative source catalog.
func loadSource(proj *config.Project, sourceLocale string) (catalog.Tree, map[string]any, error) {
	path := catalog.PathFor(proj.CatalogDir, sourceLocale)
	tree, err := catalog.ParseFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("source catalog: %w", err)
	}
	return tree, catalog.Flatten(tree), nil
}

// loadTarget loads a target locale catalog; a missing file is treated as
// an empty tree so the sync pass can synthesize it whole.
func loadTarget(proj *config.Project, locale string) (catalog.Tree, error) {
	path := catalog.PathFor(proj.CatalogDir, locale)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return catalog.Tree{}, nil
	}
	return catalog.ParseFile(path)
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-locale translation statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	cfg := loadGuardrails(proj, proj.GuardrailsFile)

	_, sourceFlat, err := loadSource(proj, cfg.SourceLocale)
	if err != nil {
		return err
	}
	locales, err := targetLocales(proj, cfg.SourceLocale, "")
	if err != nil {
		return err
	}

	fmt.Printf("Project:  %s\n", proj.Root)
	fmt.Printf("Catalogs: %s\n", proj.CatalogDir)
	fmt.Printf("Source:   %s (%d keys)\n\n", langmeta.DisplayName(cfg.SourceLocale), len(sourceFlat))

	total := len(sourceFlat)
	for _, loc := range locales {
		tree, err := loadTarget(proj, loc)
		if err != nil {
			return err
		}
		flat := catalog.Flatten(tree)

		translated := 0
		for key := range sourceFlat {
			val, ok := flat[key]
			if ok && !merge.IsUntranslated(val, loc) {
				translated++
			}
		}
		percent := 0
		if total > 0 {
			percent = translated * 100 / total
		}
		fmt.Printf("  %-28s %4d/%-4d %3d%%\n", langmeta.DisplayName(loc), translated, total, percent)
	}
	return nil
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	var (
		configPath string
		localeFlag string
		srcFlag    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run consistency guardrails",
		Long: `Run consistency guardrails between the source catalog, the other locale
catalogs, and the catalog keys referenced by application source code.

Errors (fail the run):
  - keys present in the source catalog but missing from a locale
  - keys present in a locale but absent from the source catalog
  - placeholder sets that differ between source and locale strings
  - keys referenced by code but not declared in the source catalog

Warnings (never fail the run):
  - source keys no extraction pass could find a usage for
  - dynamic lookup expressions static analysis cannot resolve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(configPath, localeFlag, srcFlag)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Guardrails config file (default: guardrails.json in project root)")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "Locales to check (comma-separated, default: all)")
	cmd.Flags().StringVar(&srcFlag, "src", "", "Source directories to scan (comma-separated)")

	return cmd
}

func runCheck(configPath, localeFlag, srcFlag string) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = proj.GuardrailsFile
	}
	cfg := loadGuardrails(proj, configPath)

	srcDirs := proj.SourceDirs
	if dirs := splitList(srcFlag); dirs != nil {
		srcDirs = dirs
	}

	checker := &guardrails.Checker{Config: cfg}
	report, err := checker.Run(proj.CatalogDir, srcDirs, splitList(localeFlag))
	if err != nil {
		return err
	}

	printReport(report)

	if report.HasErrors() {
		return errors.New("guardrail check found errors")
	}
	logSuccess("%s", i18n.T("All locales are consistent with the source catalog"))
	return nil
}

func printReport(r *guardrails.Report) {
	ex := r.Extraction
	logInfo("scanned %d files: %d static keys, %d template patterns (%d keys resolved), %d literal references",
		ex.FilesScanned, len(ex.StaticKeys), len(ex.TemplatePatterns), len(ex.TemplateResolvedKeys), len(ex.LiteralReferencedKeys))

	for _, key := range r.MissingFromSource {
		logError("used in code but missing from %s catalog: %s", r.SourceLocale, key)
	}

	for i := range r.Locales {
		lr := &r.Locales[i]
		for _, key := range lr.MissingKeys {
			logError("%s: missing key %s", lr.Locale, key)
		}
		for _, key := range lr.ExtraKeys {
			logError("%s: extra key %s (not in source catalog)", lr.Locale, key)
		}
		for _, m := range lr.PlaceholderMismatches {
			logError("%s: placeholder mismatch for %s: source {%s} vs locale {%s}",
				lr.Locale, m.Key, strings.Join(m.Source, ","), strings.Join(m.Target, ","))
		}
		if !lr.HasErrors() {
			logSuccess("%s: in sync", lr.Locale)
		}
	}

	for _, key := range r.StaleKeys {
		logWarning("possibly unused key: %s", key)
	}
	for _, expr := range ex.VariableExpressions {
		logWarning("dynamic key expression cannot be checked: t(%s)", expr)
	}
}

// ---------------------------------------------------------------------------
// sync
// ---------------------------------------------------------------------------

func newSyncCmd() *cobra.Command {
	var (
		write      bool
		keepExtra  bool
		localeFlag string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reshape locale catalogs to match the source catalog",
		Long: `Reshape every locale catalog to the source catalog's branch structure.

Existing translations are preserved. Keys new in the source are inserted
as visibly tagged untranslated copies of the source text ("[fr-FR] Save").
Keys the source no longer declares are pruned unless --keep-extra is set.

Dry-run by default; pass --write to apply changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(syncArgs{write: write, keepExtra: keepExtra, localeFlag: localeFlag})
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write synchronized catalogs to disk")
	cmd.Flags().BoolVar(&keepExtra, "keep-extra", false, "Keep target keys absent from the source catalog")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "Locales to sync (comma-separated, default: all)")

	return cmd
}

type syncArgs struct {
	write      bool
	keepExtra  bool
	localeFlag string
}

func runSync(a syncArgs) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	cfg := loadGuardrails(proj, proj.GuardrailsFile)

	base, _, err := loadSource(proj, cfg.SourceLocale)
	if err != nil {
		return err
	}
	locales, err := targetLocales(proj, cfg.SourceLocale, a.localeFlag)
	if err != nil {
		return err
	}

	for _, loc := range locales {
		target, err := loadTarget(proj, loc)
		if err != nil {
			return err
		}

		var stats merge.Stats
		synced := merge.Sync(base, target, loc, "", &stats, a.keepExtra)

		for _, path := range stats.Added {
			logInfo("%s: + %s", loc, path)
		}
		for _, path := range stats.Removed {
			logInfo("%s: - %s", loc, path)
		}

		if a.write {
			if err := catalog.WriteFile(catalog.PathFor(proj.CatalogDir, loc), synced); err != nil {
				return err
			}
		}
		logSuccess("%s: %d added, %d removed", loc, len(stats.Added), len(stats.Removed))
	}

	if !a.write {
		logInfo("%s", i18n.T("Dry run, no files were written (use --write to apply)"))
	}
	return nil
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		write           bool
		keepExtra       bool
		rewriteExisting bool
		localeFlag      string
		batchSize       int
		apiKey          string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Machine-translate untranslated and stale entries",
		Long: `Synchronize each locale catalog with the source, then machine-translate
every entry that is untranslated, or whose source text changed since it
was last machine-translated (tracked in localekit.lock), or all entries
with --rewrite-existing.

Placeholders like {name} are protected from the translator. The service
credential is read from --api-key, the ` + settings.EnvAPIKey + ` environment
variable, or the stored credential (see "localekit auth"). ` + settings.EnvEndpoint + `
overrides the service endpoint.

Dry-run by default; pass --write to apply changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(translateArgs{
				write: write, keepExtra: keepExtra, rewriteExisting: rewriteExisting,
				localeFlag: localeFlag, batchSize: batchSize, apiKey: apiKey,
			})
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write translated catalogs to disk")
	cmd.Flags().BoolVar(&keepExtra, "keep-extra", false, "Keep target keys absent from the source catalog")
	cmd.Flags().BoolVar(&rewriteExisting, "rewrite-existing", false, "Re-translate already translated entries")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "Locales to translate (comma-separated, default: all)")
	cmd.Flags().IntVar(&batchSize, "batch-size", translate.DefaultBatchSize, "Texts per translation request")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Translation service API key (or "+settings.EnvAPIKey+")")

	return cmd
}

type translateArgs struct {
	write           bool
	keepExtra       bool
	rewriteExisting bool
	localeFlag      string
	batchSize       int
	apiKey          string
}

func runTranslate(a translateArgs) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	cfg := loadGuardrails(proj, proj.GuardrailsFile)

	key := settings.ResolveAPIKey(a.apiKey)
	if key == "" {
		return fmt.Errorf("%s (set %s or run \"localekit auth set-key\")", i18n.T("No API key configured"), settings.EnvAPIKey)
	}

	base, baseFlat, err := loadSource(proj, cfg.SourceLocale)
	if err != nil {
		return err
	}
	locales, err := targetLocales(proj, cfg.SourceLocale, a.localeFlag)
	if err != nil {
		return err
	}

	lock, err := lockfile.Load(proj.Root)
	if err != nil {
		return err
	}

	client := translate.New(translate.Options{
		Endpoint:  settings.ResolveEndpoint(key),
		AuthKey:   key,
		BatchSize: a.batchSize,
		Logf:      logInfo,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sourcePaths := catalog.SortedPaths(baseFlat)

	for _, loc := range locales {
		target, err := loadTarget(proj, loc)
		if err != nil {
			return err
		}

		var stats merge.Stats
		synced := merge.Sync(base, target, loc, "", &stats, a.keepExtra)
		pairs := outstandingPairs(baseFlat, catalog.Flatten(synced), loc, lock, a.rewriteExisting)

		if len(pairs) == 0 {
			logSuccess("%s: nothing to translate", loc)
			continue
		}
		logInfo("%s: %d entries to translate", langmeta.DisplayName(loc), len(pairs))

		if !a.write {
			for _, p := range pairs {
				fmt.Printf("  %s = %s\n", p.Key, p.Text)
			}
			continue
		}

		results, err := client.Translate(ctx, pairs, cfg.SourceLocale, loc)
		if err != nil {
			return fmt.Errorf("translating %s: %w", loc, err)
		}

		for i, p := range pairs {
			catalog.Set(synced, p.Key, results[i])
			lock.Update(loc, p.Key, p.Text)
		}
		lock.Clean(loc, sourcePaths)

		if err := catalog.WriteFile(catalog.PathFor(proj.CatalogDir, loc), synced); err != nil {
			return err
		}
		logSuccess("%s: translated %d entries", loc, len(results))
	}

	if a.write {
		return lock.Save()
	}
	logInfo("%s", i18n.T("Dry run, no files were written (use --write to apply)"))
	return nil
}

// outstandingPairs selects the (key, source text) pairs needing machine
// translation for a locale: synthesized untranslated markers, entries
// whose source text drifted since their last machine translation, or
// every translatable entry under rewriteExisting. Metadata and
// non-textual leaves are never sent.
func outstandingPairs(baseFlat, syncedFlat map[string]any, locale string, lock *lockfile.LockFile, rewriteExisting bool) []translate.Pair {
	var pairs []translate.Pair
	for _, key := range catalog.SortedPaths(baseFlat) {
		sourceText, ok := baseFlat[key].(string)
		if !ok || key == merge.MetaBranch || strings.HasPrefix(key, merge.MetaBranch+".") {
			continue
		}
		val, ok := syncedFlat[key]
		if !ok {
			continue
		}
		switch {
		case merge.IsUntranslated(val, locale):
		case rewriteExisting:
			if _, isString := val.(string); !isString {
				continue
			}
		case lock.Drifted(locale, key, sourceText):
			if _, isString := val.(string); !isString {
				continue
			}
		default:
			continue
		}
		pairs = append(pairs, translate.Pair{Key: key, Text: sourceText})
	}
	return pairs
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the translation service credential",
	}
	cmd.AddCommand(newAuthSetKeyCmd(), newAuthStatusCmd(), newAuthLogoutCmd())
	return cmd
}

func newAuthSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the translation service API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Save(settings.Auth{Key: args[0]}); err != nil {
				return err
			}
			logSuccess("API key stored in %s", settings.FilePath())
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured credential",
		Run: func(cmd *cobra.Command, args []string) {
			key := settings.ResolveAPIKey("")
			if key == "" {
				logWarning("%s", i18n.T("No API key configured"))
				return
			}
			fmt.Printf("API key:  %s\n", maskKey(key))
			fmt.Printf("Endpoint: %s\n", settings.ResolveEndpoint(key))
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Clear(); err != nil {
				return err
			}
			logSuccess("Stored credential removed")
			return nil
		},
	}
}

// maskKey hides all but the edges of a credential for display.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
