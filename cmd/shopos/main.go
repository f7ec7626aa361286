package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/shopos/cli/internal/api"
	"github.com/gravitrone/shopos/cli/internal/cmd"
	"github.com/gravitrone/shopos/cli/internal/config"
	"github.com/gravitrone/shopos/cli/internal/logging"
	"github.com/gravitrone/shopos/cli/internal/navigation"
	"github.com/gravitrone/shopos/cli/internal/realtime"
	"github.com/gravitrone/shopos/cli/internal/selection"
	"github.com/gravitrone/shopos/cli/internal/shortcuts"
	"github.com/gravitrone/shopos/cli/internal/storage"
	"github.com/gravitrone/shopos/cli/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var offline bool
	root := &cobra.Command{
		Use:   "shopos",
		Short: "Mechanic Shop OS - shop floor terminal",
		Long:  "Shop OS CLI: track jobs through the bays, look up customers and vehicles, and follow the floor live.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(offline)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().BoolVar(&offline, "offline", false, "skip live updates")

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.JobsCmd())
	root.AddCommand(cmd.WorkflowCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(offline bool) error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
				fmt.Println("not logged in. run 'shopos login' first.")
				return err
			}
			cfg = nil
		} else {
			return err
		}
	}

	var logCfg logging.Config
	if cfg != nil {
		logCfg = cfg.Log
	}
	if err := logging.Configure(logCfg, nil); err != nil {
		return err
	}
	defer logging.Close()
	log := logging.NewLogger("main")

	store := openStateStore()
	defer store.Close()

	sel := selection.New(selection.Options{Storage: store})
	if err := sel.Restore(); err != nil {
		log.WithError(err).Warn("selection history not restored")
	}
	nav := navigation.New(navigation.Options{Storage: store})
	if err := nav.Restore(); err != nil {
		log.WithError(err).Warn("route history not restored")
	}

	apiKey := ""
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	baseURL := cfg.ResolvedBaseURL(api.DefaultBaseURL)
	client := api.NewClient(baseURL, apiKey)

	var updates <-chan tea.Msg
	if !offline && apiKey != "" {
		ch, release, err := subscribe(cfg.ResolvedRealtimeURL(baseURL), apiKey)
		if err != nil {
			log.WithError(err).Warn("live updates unavailable")
		} else {
			defer release()
			updates = ch
		}
	}

	app := ui.NewApp(ui.Deps{
		Client:     client,
		Config:     cfg,
		Selection:  sel,
		Navigation: nav,
		Shortcuts:  shortcuts.NewRegistry(),
		Updates:    updates,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// openStateStore opens the SQLite state database, falling back to memory so
// the TUI still starts on a read-only home.
func openStateStore() storage.Store {
	db, err := storage.OpenSQLite(storage.DefaultPath())
	if err != nil {
		logging.NewLogger("main").WithError(err).Warn("state database unavailable, history will not persist")
		return storage.NewMemory()
	}
	return db
}

func subscribe(url, apiKey string) (<-chan tea.Msg, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rt, err := realtime.Dial(ctx, url, apiKey)
	if err != nil {
		return nil, nil, err
	}
	updates, release, err := ui.SubscribeJobs(rt, nil)
	if err != nil {
		_ = rt.Close()
		return nil, nil, err
	}
	return updates, func() {
		release()
		_ = rt.Close()
	}, nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
