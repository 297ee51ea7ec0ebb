package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/focus"
)

func newFocusCmd(e *env) *cobra.Command {
	var habitName string
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a pomodoro session without the TUI",
		Long: `Run a pomodoro work session in the terminal. When it completes, the minutes
are recorded as a focus session and added to --habit's log for the day.

The command exits when the timer stops: after one work session by default, or
on Ctrl-C when focus_auto_start_breaks and focus_auto_start_work are enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var habit *focus.Habit
			if habitName != "" {
				h, err := e.store.GetHabitByName(e.userID, habitName)
				if err != nil {
					return err
				}
				habit = focus.HabitFrom(*h)
			}
			return e.runFocus(cmd, habit)
		},
	}
	cmd.Flags().StringVar(&habitName, "habit", "", "Habit the session counts toward")
	return cmd
}

func (e *env) runFocus(cmd *cobra.Command, habit *focus.Habit) error {
	out := cmd.OutOrStdout()
	st := e.stylesFor(out)

	m := focus.New(focus.LoadConfig(e.store), habit).WithClock(e.now)
	m.Start()
	rec := focus.NewRecorder(e.store, e.log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticks, stopTicks := e.ticks()
	defer stopTicks()

	if habit != nil {
		fmt.Fprintf(out, "Focusing on %s\n", st.bold.Render(habit.Name))
	}

	var recordErr error
	err := focus.Run(ctx, m, ticks, focus.Hooks{
		OnTick: func(m *focus.Machine) {
			if isTerminal(out) {
				fmt.Fprintf(out, "\r%-12s %s ", m.Session(), clock(m.SecondsRemaining()))
			}
			if !m.Running() {
				cancel()
			}
		},
		OnCommit: func(c focus.Commit) {
			if err := rec.Record(e.userID, c); err != nil {
				recordErr = err
				cancel()
				return
			}
			line := fmt.Sprintf("Pomodoro %d done, %d min logged", c.Pomodoros, c.SessionMinutes)
			if c.HasHabit() {
				line += " to " + c.HabitName
			}
			fmt.Fprintln(out, "\n"+st.success.Render(line))
		},
	})
	if recordErr != nil {
		return recordErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	e.log.Info("focus finished", zap.Int("pomodoros", m.CompletedPomodoros()))
	return nil
}
