package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/deductgo/internal/api"
	"github.com/rgehrsitz/deductgo/internal/calculation"
	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/output"
	"github.com/rgehrsitz/deductgo/internal/storage/postgres"
	"github.com/rgehrsitz/deductgo/internal/wizard"
)

// computeFromFile loads a declaration and runs it through the calculator.
func (o *options) computeFromFile(path string) (*output.Report, error) {
	rules, err := o.loadRules()
	if err != nil {
		return nil, err
	}
	input, err := config.NewInputParser().LoadDeclaration(path)
	if err != nil {
		return nil, err
	}

	calc := calculation.NewDeductionCalculator(rules)
	if o.debug {
		calc.SetLogger(simpleCLILogger{})
	}
	return output.NewReport(*input, calc.Compute(*input), rules), nil
}

func formatterFor(name string) (output.Formatter, error) {
	f := output.GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(output.FormatterNames(), ", "))
	}
	return f, nil
}

func calculateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [declaration-file]",
		Short: "Compute the deduction breakdown for a declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			save, _ := cmd.Flags().GetBool("save")

			f, err := formatterFor(format)
			if err != nil {
				return err
			}
			report, err := opts.computeFromFile(args[0])
			if err != nil {
				return err
			}

			if save {
				name, err := output.WriteFormatted(f, report, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", name)
				return nil
			}
			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format: console, json, csv, yaml or summary")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [declaration-file]",
		Short: "Check a declaration (and the rule table) without computing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.loadRules(); err != nil {
				return err
			}
			if _, err := config.NewInputParser().LoadDeclaration(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	}
}

func rulesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := opts.loadRules()
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			var data []byte
			if asJSON {
				data, err = output.JSONFormatter{Pretty: true}.FormatRules(rules)
			} else {
				data, err = output.YAMLFormatter{}.FormatRules(rules)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON instead of YAML")
	return cmd
}

func guideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print the filing guide",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), output.GuideText(80))
		},
	}
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a declaration has been submitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			submitted, err := store.Submitted(ctx)
			if err != nil {
				return fmt.Errorf("read submission state: %w", err)
			}
			if submitted {
				fmt.Fprintln(cmd.OutOrStdout(), "Declaration submitted. Deductions apply from the next payroll month.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No declaration submitted yet.")
			}
			return nil
		},
	}
}

// submitCmd walks a session through declare, review and submit with the
// declaration read from a file.
func submitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [declaration-file]",
		Short: "Review and submit a declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rules, err := opts.loadRules()
			if err != nil {
				return err
			}
			input, err := config.NewInputParser().LoadDeclaration(args[0])
			if err != nil {
				return err
			}
			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			sessionOpts := []wizard.Option{wizard.WithInput(*input)}
			if opts.debug {
				sessionOpts = append(sessionOpts, wizard.WithLogger(simpleCLILogger{}))
			}
			session, err := wizard.NewSession(ctx, store, rules, sessionOpts...)
			if err != nil {
				return err
			}
			if session.Submitted() {
				fmt.Fprintln(cmd.OutOrStdout(), "A declaration was already submitted; this one replaces it.")
			}
			if err := session.Start(); err != nil {
				return err
			}
			if err := session.Next(); err != nil {
				return err
			}

			review, err := output.ConsoleFormatter{}.Format(output.NewReport(session.Input(), session.Result(), rules))
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(review); err != nil {
				return err
			}

			if _, err := session.Submit(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nDeclaration submitted.")
			return nil
		},
	}
}

func resetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the submission flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.SetSubmitted(ctx, false); err != nil {
				return fmt.Errorf("clear submission state: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Submission cleared.")
			return nil
		},
	}
}

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
			if !opts.debug {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rules, err := opts.loadRules()
			if err != nil {
				return err
			}
			store, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			slog.Info("Starting API", "backend", opts.settings.Backend, "rules_year", ruleYear(rules))
			err = api.Serve(ctx, opts.settings.Addr, api.NewRouter(api.NewHandler(store, rules)))
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the postgres backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.settings.DatabaseURL == "" {
				return fmt.Errorf("migrate needs DATABASE_URL or --database-url")
			}
			return postgres.Migrate(cmd.Context(), opts.settings.DatabaseURL)
		},
	}
}

func ruleYear(r domain.RuleTable) string {
	if r.Metadata.DataYear == 0 {
		return "custom"
	}
	return fmt.Sprint(r.Metadata.DataYear)
}
