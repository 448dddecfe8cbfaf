package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/funcspot/schema"
)

// Bounds for ranked output and the check gate.
const (
	DefaultTotal    = 50
	MaxTotal        = 1000
	DefaultMaxCount = 50
)

// DefaultWorkers sizes the walk pool to the available CPUs.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// defaultExcludes are skipped in every run. They cover vendored trees and
// build output, which inflate counts without saying anything about the
// project's own code.
var defaultExcludes = []string{
	"vendor/", "third_party/", "node_modules/",
	"dist/", "build/", "out/", "target/", "bin/",
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig turns a non-empty prefix into an enabled profile.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config is the validated runtime configuration. Everything downstream of
// the setup hooks reads from this struct, never from raw flags.
type Config struct {
	RepoPath    string
	PathPrefix  string
	InvertMatch string
	ExcludeFunc string
	Excludes    []string
	Languages   []schema.Language
	Skip        int
	Total       int
	Workers     int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CompareMode bool
	BaseRef     string
	TargetRef   string

	MaxCount int // CI gate threshold for the check command

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Prefer the env var; flag values leak into shell history

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Prefer the env var; flag values leak into shell history

	UseColors bool // Enable colored heat labels in table output
}

// ConfigRawInput collects the unvalidated inputs from flags, env vars and
// the config file. Viper unmarshals into it before ProcessAndValidate runs.
type ConfigRawInput struct {
	// Positional argument, so no mapstructure tag
	RepoPathStr string

	// Persistent flags shared by every command
	Prefix            string `mapstructure:"prefix"`
	InvertMatch       string `mapstructure:"invert-match"`
	ExcludeFunc       string `mapstructure:"exclude-func"`
	Exclude           string `mapstructure:"exclude"`
	Languages         string `mapstructure:"languages"`
	Skip              int    `mapstructure:"skip"`
	Total             int    `mapstructure:"total"`
	Workers           int    `mapstructure:"workers"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// Compare command flags
	BaseRef   string `mapstructure:"base-ref"`
	TargetRef string `mapstructure:"target-ref"`

	// Check command flags
	MaxCount int `mapstructure:"max-count"`
}

// Clone returns an independent copy whose slices can be mutated freely.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Excludes = slices.Clone(c.Excludes)
	clone.Languages = slices.Clone(c.Languages)
	return &clone
}

// LanguageSet returns the configured languages as a lookup set.
func (c *Config) LanguageSet() map[schema.Language]struct{} {
	set := make(map[schema.Language]struct{}, len(c.Languages))
	for _, lang := range c.Languages {
		set[lang] = struct{}{}
	}
	return set
}

// ProcessAndValidate parses the raw inputs, validates them and fills in cfg.
// The Git client resolves the repository root, so this needs a context.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCompareMode(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPathAndPrefix(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// connStrMarkers lists the substrings a backend's connection string must
// carry before a driver will accept it. SQLite and none are absent because
// they take a file path or nothing at all.
var connStrMarkers = map[schema.DatabaseBackend][]struct {
	token  string
	reason string
}{
	schema.MySQLBackend: {
		{"@tcp(", "MySQL connection string must contain '@tcp(' for host:port specification"},
		{"/", "MySQL connection string must contain '/' followed by database name"},
	},
	schema.PostgreSQLBackend: {
		{"host=", "PostgreSQL connection string must contain 'host=' parameter"},
		{"dbname=", "PostgreSQL connection string must contain 'dbname=' parameter"},
	},
}

// ValidateDatabaseConnectionString checks that a connection string has the
// shape its backend expects, catching malformed DSNs before a confusing
// driver error does.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	markers, ok := connStrMarkers[backend]
	if !ok {
		return nil
	}
	if connStr == "" {
		return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
	}
	for _, m := range markers {
		if !strings.Contains(connStr, m.token) {
			return errors.New(m.reason)
		}
	}
	return nil
}

// resolveBackend lowercases and validates a backend name. The kind label
// ("cache" or "analysis") only shapes the error message.
func resolveBackend(kind, raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(raw))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s backend '%s'. must be sqlite, mysql, postgresql, none", kind, raw)
	}
	return backend, nil
}

// validateBackendConfigs resolves the cache and analysis storage backends.
// An empty analysis backend leaves run tracking off entirely.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.CacheBackend, err = resolveBackend("cache", input.CacheBackend); err != nil {
		return err
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	if input.AnalysisBackend == "" {
		return nil
	}
	if cfg.AnalysisBackend, err = resolveBackend("analysis", input.AnalysisBackend); err != nil {
		return err
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}
	return checkSQLiteCollision(cfg)
}

// checkSQLiteCollision rejects configurations where the cache and the
// analysis store resolve to the same SQLite file. Empty connection strings
// fall back to default paths, which is the usual way the paths end up equal.
func checkSQLiteCollision(cfg *Config) error {
	if cfg.CacheBackend != schema.SQLiteBackend || cfg.AnalysisBackend != schema.SQLiteBackend {
		return nil
	}
	cachePath := cfg.CacheDBConnect
	if cachePath == "" {
		cachePath = GetCacheDBFilePath()
	}
	analysisPath := cfg.AnalysisDBConnect
	if analysisPath == "" {
		analysisPath = GetAnalysisDBFilePath()
	}
	if cachePath == analysisPath {
		return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cachePath)
	}
	return nil
}

// processLanguages parses the comma-separated language list. An empty
// input selects every supported language.
func processLanguages(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Languages) == "" {
		cfg.Languages = slices.Clone(schema.AllLanguages)
		return nil
	}

	var langs []schema.Language
	for p := range strings.SplitSeq(input.Languages, ",") {
		name := schema.Language(strings.ToLower(strings.TrimSpace(p)))
		if name == "" {
			continue
		}
		if _, ok := schema.ValidLanguages[name]; !ok {
			return fmt.Errorf("invalid language '%s'. must be go, rust, lua", name)
		}
		langs = append(langs, name)
	}
	if len(langs) == 0 {
		return fmt.Errorf("no valid languages in '%s'", input.Languages)
	}
	cfg.Languages = langs
	return nil
}

// validateSimpleInputs covers every field that needs no Git access: copies
// the pass-through values, range-checks the numbers and resolves the
// enumerated ones.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.PathPrefix = input.Prefix
	cfg.InvertMatch = input.InvertMatch
	cfg.ExcludeFunc = input.ExcludeFunc
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Total <= 0 || input.Total > MaxTotal {
		return fmt.Errorf("total must be greater than 0 and cannot exceed %d (received %d)", MaxTotal, input.Total)
	}
	cfg.Total = input.Total

	if input.Skip < 0 {
		return fmt.Errorf("skip must not be negative (received %d)", input.Skip)
	}
	cfg.Skip = input.Skip

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MaxCount < 0 {
		return fmt.Errorf("max-count must not be negative (received %d)", input.MaxCount)
	}
	cfg.MaxCount = input.MaxCount

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	if err := processLanguages(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}

	// User excludes extend the defaults rather than replacing them
	cfg.Excludes = slices.Clone(defaultExcludes)
	for p := range strings.SplitSeq(input.Exclude, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Excludes = append(cfg.Excludes, p)
		}
	}

	return nil
}

// processCompareMode reads the ref pair. Both refs empty means a plain
// ranking run; a base ref alone compares against HEAD.
func processCompareMode(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)

	if cfg.BaseRef == "" && cfg.TargetRef == "" {
		cfg.CompareMode = false
		return nil
	}
	cfg.CompareMode = true

	if cfg.BaseRef == "" {
		return fmt.Errorf("must specify --base-ref when running the compare command")
	}
	if cfg.TargetRef == "" {
		cfg.TargetRef = "HEAD"
	}

	return nil
}

// RevalidateCompare re-checks comparison parameters supplied outside the
// normal flag flow (e.g. by an MCP tool call).
func RevalidateCompare(cfg *Config) error {
	if cfg.BaseRef == "" {
		return fmt.Errorf("base_ref is required")
	}
	if cfg.TargetRef == "" {
		cfg.TargetRef = "HEAD"
	}
	cfg.CompareMode = true
	return nil
}

// RevalidateLimit re-checks a result limit supplied outside the normal
// flag flow (e.g. by an MCP tool call). Zero keeps the configured total.
func RevalidateLimit(cfg *Config, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative (received %d)", limit)
	}
	if limit > MaxTotal {
		return fmt.Errorf("limit cannot exceed %d (received %d)", MaxTotal, limit)
	}
	if limit > 0 {
		cfg.Total = limit
	}
	return nil
}

// derivePrefix computes the path filter implied by pointing the tool at a
// subtree of the repository. Directories get a trailing slash so the filter
// cannot match sibling files sharing the name.
func derivePrefix(gitRoot, absSearch string, isDir bool) (string, error) {
	rel, err := filepath.Rel(gitRoot, absSearch)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	if isDir {
		rel += "/"
	}
	return strings.ReplaceAll(rel, string(os.PathSeparator), "/"), nil
}

// resolveGitPathAndPrefix turns the positional argument into a repository
// root plus an implicit prefix filter, so running from a subdirectory
// analyzes the whole repo scoped to that subtree.
func resolveGitPathAndPrefix(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearch, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearch = filepath.Clean(absSearch)

	// A file argument anchors the repository lookup at its directory
	info, statErr := os.Stat(absSearch)
	isDir := statErr == nil && info.IsDir()
	gitContext := absSearch
	if statErr == nil && !isDir {
		gitContext = filepath.Dir(absSearch)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContext)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot

	// An explicit --prefix wins over the one implied by the argument
	if cfg.PathPrefix != "" || absSearch == gitRoot {
		return nil
	}
	prefix, err := derivePrefix(gitRoot, absSearch, isDir)
	if err != nil {
		return err
	}
	cfg.PathPrefix = prefix
	return nil
}
