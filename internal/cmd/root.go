// Package cmd provides CLI command implementations.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/modkit/internal/config"
	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/internal/tracing"
	"github.com/opmodel/modkit/pkg/module"
)

var (
	// Global flags
	configFlag       string
	domainFlags      []string
	outputFormatFlag string
	verboseFlag      bool
	timestampsFlag   bool
	matchFlag        string
	cleanupFlag      string
	traceFlag        string

	// Resolved settings (set during PersistentPreRunE)
	settings *Settings
	provider *tracing.Provider
)

// skipSettingsAnnotation marks commands that must run even when the config
// file holds invalid values, such as config vet.
const skipSettingsAnnotation = "modkit/skip-settings"

// Settings is the configuration after flag > env > config > default
// precedence was applied.
type Settings struct {
	ConfigPath config.ResolvedValue
	Domains    []string
	Output     output.OutputFormat
	Match      module.MatchMode
	Cleanup    module.CleanupPolicy
	Exporter   string

	// Config is the loaded file, or nil when it could not be read.
	Config *config.Config

	// Resolved records every resolved value for debug logging.
	Resolved []config.ResolvedValue
}

// NewRootCmd creates the root command for the modkit CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modkit",
		Short: "Type hierarchy and module registry toolkit",
		Long: `modkit loads type domains from manifest files, answers type hierarchy
queries, and replays module scenarios against per-owner collections or a
shared registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownTracing(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: MODKIT_CONFIG)")
	rootCmd.PersistentFlags().StringSliceVarP(&domainFlags, "domain", "d", nil, "Domain manifest files, repeatable (env: MODKIT_DOMAINS)")
	rootCmd.PersistentFlags().StringVarP(&outputFormatFlag, "output", "o", "table", "Output format: table, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&matchFlag, "match", "", "Default lookup match mode: assignable, exact (env: MODKIT_MATCH)")
	rootCmd.PersistentFlags().StringVar(&cleanupFlag, "cleanup", "", "Registry cleanup policy: closure, legacy (env: MODKIT_CLEANUP)")
	rootCmd.PersistentFlags().StringVar(&traceFlag, "trace", "", "Trace exporter: none, stdout (env: MODKIT_TRACING_EXPORTER)")

	rootCmd.AddCommand(NewTypesCmd())
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration, sets up logging and tracing.
func initializeGlobals(cmd *cobra.Command) error {
	pathValue, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	cfg, err := config.NewLoader().Load(pathValue.Value)
	if err != nil {
		// Commands that need no config still work.
		output.Debug("config load error", "path", pathValue.Value, "error", err)
	}

	var fileCfg config.Config
	if cfg != nil {
		fileCfg = *cfg
	}

	// Logging first so resolution can be traced at debug level.
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if fileCfg.Log.Timestamps != nil {
		logCfg.Timestamps = fileCfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	settings, provider = nil, nil
	if cmd.Annotations[skipSettingsAnnotation] == "true" {
		return nil
	}

	resolved, err := resolveSettings(pathValue, &fileCfg)
	if err != nil {
		return err
	}
	resolved.Config = cfg
	settings = resolved
	config.LogResolvedValues(settings.Resolved)

	provider, err = tracing.NewProvider(tracing.Config{Exporter: settings.Exporter, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	return nil
}

func resolveSettings(pathValue config.ResolvedValue, cfg *config.Config) (*Settings, error) {
	domains := config.Resolve(config.ResolveOptions{
		Key:         "domains",
		FlagValue:   strings.Join(domainFlags, ","),
		EnvVar:      "MODKIT_DOMAINS",
		ConfigValue: strings.Join(cfg.Domains, ","),
	})
	format := config.Resolve(config.ResolveOptions{
		Key:       "output",
		FlagValue: outputFormatFlag,
		Default:   string(output.FormatTable),
	})
	match := config.Resolve(config.ResolveOptions{
		Key:         "match",
		FlagValue:   matchFlag,
		EnvVar:      "MODKIT_MATCH",
		ConfigValue: cfg.Match,
		Default:     config.DefaultMatch,
	})
	cleanup := config.Resolve(config.ResolveOptions{
		Key:         "cleanup",
		FlagValue:   cleanupFlag,
		EnvVar:      "MODKIT_CLEANUP",
		ConfigValue: cfg.Cleanup,
		Default:     config.DefaultCleanup,
	})
	exporter := config.Resolve(config.ResolveOptions{
		Key:         "tracing.exporter",
		FlagValue:   traceFlag,
		EnvVar:      "MODKIT_TRACING_EXPORTER",
		ConfigValue: cfg.Tracing.Exporter,
		Default:     config.DefaultExporter,
	})

	s := &Settings{
		ConfigPath: pathValue,
		Domains:    splitList(domains.Value),
		Exporter:   exporter.Value,
		Resolved:   []config.ResolvedValue{pathValue, domains, format, match, cleanup, exporter},
	}

	var err error
	if s.Output, err = output.ParseOutputFormat(format.Value); err != nil {
		return nil, err
	}
	if s.Match, err = module.ParseMatchMode(match.Value); err != nil {
		return nil, oerrors.NewInvalidArgumentError(fmt.Sprintf("match mode from %s: %v", match.Source, err),
			"match", module.ValidMatchModes())
	}
	if s.Cleanup, err = module.ParseCleanupPolicy(cleanup.Value); err != nil {
		return nil, oerrors.NewInvalidArgumentError(fmt.Sprintf("cleanup policy from %s: %v", cleanup.Source, err),
			"cleanup", module.ValidCleanupPolicies())
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func shutdownTracing(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return provider.Shutdown(ctx)
}

// GetSettings returns the resolved settings.
func GetSettings() *Settings {
	return settings
}
