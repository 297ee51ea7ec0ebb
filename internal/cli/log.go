package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

type logOptions struct {
	date    string
	minutes float64
	focus   float64
	undo    bool
}

func newLogCmd(e *env) *cobra.Command {
	var opts logOptions
	cmd := &cobra.Command{
		Use:   "log <habit>",
		Short: "Mark a habit complete for a day",
		Long: `Mark a habit complete for today, or for --date. Minutes and a 0-10 focus
score can be recorded with it. --undo clears the completion but keeps the
recorded minutes.`,
		Example: `  habitr log Read
  habitr log "Deep Work" --minutes 50 --focus 8
  habitr log Run --date 2026-10-17
  habitr log Run --undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.date = resolveDate(opts.date, e.now())
			if _, err := time.ParseInLocation(store.DateLayout, opts.date, time.Local); err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", opts.date)
			}
			if cmd.Flags().Changed("minutes") && opts.minutes < 0 {
				return fmt.Errorf("--minutes must not be negative")
			}
			if cmd.Flags().Changed("focus") && (opts.focus < 0 || opts.focus > 10) {
				return fmt.Errorf("--focus must be between 0 and 10")
			}

			h, err := e.store.GetHabitByName(e.userID, args[0])
			if err != nil {
				return err
			}
			existing, err := e.store.GetHabitLog(e.userID, h.ID, opts.date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := e.stylesFor(out)
			if opts.undo {
				if existing == nil || !existing.Completed {
					fmt.Fprintf(out, "%s was not completed on %s\n", h.Name, opts.date)
					return nil
				}
				u := updateFrom(existing)
				u.Completed = false
				u.CompletedAt = nil
				if err := e.store.UpsertHabitLog(e.userID, u); err != nil {
					return err
				}
				e.log.Info("habit log undone", zap.Int64("habit_id", h.ID), zap.String("date", opts.date))
				fmt.Fprintf(out, "%s %s cleared for %s\n", st.warning.Render("○"), h.Name, opts.date)
				return nil
			}

			u := store.LogUpdate{HabitID: h.ID, Date: opts.date}
			if existing != nil {
				u = updateFrom(existing)
			}
			if !u.Completed {
				at := e.now()
				u.Completed = true
				u.CompletedAt = &at
			}
			if cmd.Flags().Changed("minutes") {
				m := opts.minutes
				u.Value = m
				u.DurationMinutes = &m
			}
			if cmd.Flags().Changed("focus") {
				f := opts.focus
				u.FocusScore = &f
			}
			if err := e.store.UpsertHabitLog(e.userID, u); err != nil {
				return err
			}
			e.log.Info("habit logged", zap.Int64("habit_id", h.ID), zap.String("date", opts.date), zap.Float64("value", u.Value))
			fmt.Fprintf(out, "%s %s logged for %s\n", st.success.Render("✓"), h.Name, opts.date)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "Day to log (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&opts.minutes, "minutes", 0, "Minutes spent")
	cmd.Flags().Float64Var(&opts.focus, "focus", 0, "Focus score from 0 to 10")
	cmd.Flags().BoolVar(&opts.undo, "undo", false, "Clear the completion instead")
	return cmd
}

func resolveDate(date string, now time.Time) string {
	if date == "" {
		return now.Format(store.DateLayout)
	}
	return date
}

func updateFrom(l *store.HabitLog) store.LogUpdate {
	return store.LogUpdate{
		HabitID:         l.HabitID,
		Date:            l.Date,
		Completed:       l.Completed,
		Value:           l.Value,
		CompletedAt:     l.CompletedAt,
		DurationMinutes: l.DurationMinutes,
		FocusScore:      l.FocusScore,
	}
}
