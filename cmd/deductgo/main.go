package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/storage"
	"github.com/rgehrsitz/deductgo/internal/storage/backend"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options carries the persistent flags merged over the environment settings.
type options struct {
	settings config.Settings
	debug    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "deductgo",
		Short: "Special additional deduction calculator",
		Long:  "Estimate monthly and annual individual income tax special additional deductions, then review and submit the declaration.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadSettings()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("rules") {
				opts.settings.RulesFile = env.RulesFile
			}
			if !flags.Changed("backend") {
				opts.settings.Backend = env.Backend
			}
			if !flags.Changed("state-file") {
				opts.settings.StateFile = env.StateFile
			}
			if !flags.Changed("database-url") {
				opts.settings.DatabaseURL = env.DatabaseURL
			}
			if !flags.Changed("addr") {
				opts.settings.Addr = env.Addr
			}
			return nil
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.settings.RulesFile, "rules", "", "Rule table YAML (defaults to the built-in table)")
	pf.StringVar(&opts.settings.Backend, "backend", "", "Submission store: file, postgres or memory")
	pf.StringVar(&opts.settings.StateFile, "state-file", "", "State file for the file backend")
	pf.StringVar(&opts.settings.DatabaseURL, "database-url", "", "Postgres connection URL")
	pf.StringVar(&opts.settings.Addr, "addr", "", "Listen address for serve")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		calculateCmd(opts),
		validateCmd(opts),
		rulesCmd(opts),
		guideCmd(),
		statusCmd(opts),
		submitCmd(opts),
		resetCmd(opts),
		serveCmd(opts),
		migrateCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deductgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// loadRules returns the configured rule table, or the built-in one.
func (o *options) loadRules() (domain.RuleTable, error) {
	if o.settings.RulesFile == "" {
		return domain.DefaultRuleTable(), nil
	}
	return config.NewInputParser().LoadRuleTable(o.settings.RulesFile)
}

// openStore opens the configured submission store.
func (o *options) openStore(ctx context.Context) (storage.SubmissionStore, func(), error) {
	return backend.Open(ctx, o.settings)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
