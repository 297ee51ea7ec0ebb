// Package cli contains the Cobra command tree for habitr.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/logging"
	"github.com/sadopc/habitr/internal/store"
	"github.com/sadopc/habitr/internal/tui"
)

var appVersion = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	appVersion = v
}

// env is the state shared by every command, populated in PersistentPreRunE.
type env struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	log    *zap.Logger
	store  *store.Store
	userID string

	now   func() time.Time
	ticks func() (<-chan time.Time, func())
}

func newEnv() *env {
	return &env{
		now: time.Now,
		ticks: func() (<-chan time.Time, func()) {
			t := time.NewTicker(time.Second)
			return t.C, t.Stop
		},
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "habitr",
		Short: "Track daily habits, focus sessions and the patterns between them",
		Long: `habitr tracks daily habits in a local SQLite database, runs pomodoro
focus sessions that count toward them, and reports on streaks, time-of-day
patterns and habits that tend to be completed together.

Run 'habitr' with no arguments to open the terminal interface.`,
		Version:           appVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(e.store, tui.Options{
				UserID:     e.userID,
				Logger:     e.log,
				WindowDays: e.cfg.Analytics.WindowDays,
			})
		},
	}

	root.PersistentFlags().StringVar(&e.cfgFile, "config", "", "Config file path (default: ~/.config/habitr/config.yaml)")
	root.PersistentFlags().BoolVar(&e.verbose, "verbose", false, "Log at debug level")
	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newHabitCmd(e),
		newLogCmd(e),
		newReportCmd(e),
		newFocusCmd(e),
		newExportCmd(e),
	)
	return root
}

func (e *env) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	e.cfg = cfg

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: e.verbose})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	e.log = log.With(zap.String("command", cmd.Name()))

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.store = s

	e.userID, err = s.LocalUserID()
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}
	e.log.Debug("store opened", zap.String("path", cfg.DBPath))
	return nil
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("close store", zap.Error(err))
		}
		e.store = nil
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

func run(e *env, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer e.close()
	return root.Execute()
}

// Execute is the entry point called from main.
func Execute() {
	if err := run(newEnv(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
