// Package cli wires configuration, logging, storage and the clock UI behind
// the dialclock command line.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/dialclock/internal/audio"
	"github.com/sadopc/dialclock/internal/config"
	"github.com/sadopc/dialclock/internal/store"
	"github.com/sadopc/dialclock/internal/tui"
)

// env is what every command needs once flags are parsed.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

func open(configFile string) (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("open store", zap.String("path", cfg.DBPath), zap.Error(err))
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", cfg.DBPath))
	return &env{cfg: cfg, logger: logger, store: s}, nil
}

func (e *env) Close() error {
	err := e.store.Close()
	_ = e.logger.Sync()
	return err
}

// New returns the root command. Without a subcommand it runs the clock.
func New() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "dialclock",
		Short:         "A 24-hour todo clock for the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(configFile)
			if err != nil {
				return err
			}
			defer e.Close()
			return runClock(e)
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default .dialclock.yaml in the working or home directory).")

	var withEnv envRunner = func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			e, err := open(configFile)
			if err != nil {
				return err
			}
			defer e.Close()
			return run(cmd, args, e)
		}
	}

	addAdd(cmd, withEnv)
	addList(cmd, withEnv)
	addDone(cmd, withEnv)
	addRemove(cmd, withEnv)
	addClear(cmd, withEnv)
	addToggle(cmd, withEnv)
	addRings(cmd, withEnv)
	addExport(cmd, withEnv)
	return cmd
}

// envRunner opens the environment around a command's RunE.
type envRunner func(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error

func runClock(e *env) error {
	player, err := audio.New(e.cfg.SoundCommand, e.cfg.SoundDir, os.Stderr, e.logger)
	if err != nil {
		return err
	}

	app := tui.NewApp(e.store, tui.Options{
		Tick:       e.cfg.Tick,
		Transition: e.cfg.Transition,
		Focus:      e.cfg.Focus,
		Logger:     e.logger,
		Player:     player,
	})
	defer app.Close()

	e.logger.Info("clock started", zap.String("focus", e.cfg.Focus), zap.Duration("tick", e.cfg.Tick))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run clock: %w", err)
	}
	return nil
}
