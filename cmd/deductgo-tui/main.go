package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/storage/backend"
	"github.com/rgehrsitz/deductgo/internal/tui"
	"github.com/rgehrsitz/deductgo/internal/wizard"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the wizard. An optional declaration file prefills it.
func run(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: deductgo-tui [declaration-file]")
	}

	ctx := context.Background()
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	parser := config.NewInputParser()

	rules := domain.DefaultRuleTable()
	if settings.RulesFile != "" {
		if rules, err = parser.LoadRuleTable(settings.RulesFile); err != nil {
			return err
		}
	}

	var opts []wizard.Option
	if len(args) == 1 {
		input, err := parser.LoadDeclaration(args[0])
		if err != nil {
			return err
		}
		opts = append(opts, wizard.WithInput(*input))
	}

	store, closeStore, err := backend.Open(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	session, err := wizard.NewSession(ctx, store, rules, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewModel(ctx, session),
		tea.WithAltScreen(), // Use alternate screen buffer
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
