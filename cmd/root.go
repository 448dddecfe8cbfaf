package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/iocache"
	"github.com/huangsam/funcspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Overridden through ldflags when goreleaser builds a release.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx bounds every command run. main swaps in a signal-aware context
// through SetRootContext before Execute.
var rootCtx = context.Background()

// cfg is the validated configuration every command reads from.
var cfg = &contract.Config{}

// input receives the raw flag, env and file values before validation.
var input = &contract.ConfigRawInput{}

// profile carries the CPU and heap profiling switches.
var profile = &contract.ProfileConfig{}

// cacheManager is the process-wide store handle, injected from main.
var cacheManager contract.CacheManager

// startProfiling begins a CPU profile when profiling is enabled.
// The heap profile is written later, once the run finishes.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling ends the CPU profile and captures the heap profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "funcspot",
	Short:              "Find the functions your Git history keeps coming back to.",
	Long:               `Funcspot re-parses every touched revision of your source files and ranks functions by how many distinct commits changed their definitions.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// pointViperAtConfig selects the config file. An explicit --config path
// wins; otherwise Viper searches the working directory, then home, for
// a .funcspot.yaml.
func pointViperAtConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".funcspot")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// readConfigIgnoringMissing loads the config file when one exists.
// Running without any config file is the common case, so only real read
// failures surface.
func readConfigIgnoringMissing() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// initConfig points Viper at the config file and env variables.
func initConfig() {
	pointViperAtConfig()

	// FUNCSPOT_CACHE_BACKEND and friends
	viper.SetEnvPrefix("FUNCSPOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("total", contract.DefaultTotal)
	viper.SetDefault("skip", 0)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("analysis-backend", "")
	viper.SetDefault("analysis-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup resolves config from every source, validates it into cfg,
// and opens the persistence stores. The ranking commands run it as PreRunE.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	if err := readConfigIgnoringMissing(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// The one positional argument is the repo path; Viper doesn't see it
	input.RepoPathStr = "."
	if len(args) == 1 {
		input.RepoPathStr = args[0]
	}

	client := contract.NewLocalGitClient()
	if err := contract.ProcessAndValidate(ctx, cfg, client, input); err != nil {
		return err
	}

	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile is the config-file half of sharedSetup, shared by the
// setup paths that skip repo validation.
func loadConfigFile() error {
	pointViperAtConfig()
	return readConfigIgnoringMissing()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetRootContext installs the context that bounds every command run.
// Call it before Execute so cancellation reaches the file workers.
func SetRootContext(ctx context.Context) {
	rootCtx = ctx
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
