package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/habitr/internal/analytics"
	"github.com/sadopc/habitr/internal/store"
)

// reportData is the --json document.
type reportData struct {
	From          string           `json:"from"`
	To            string           `json:"to"`
	Days          int              `json:"days"`
	ActiveHabits  int              `json:"active_habits"`
	FocusSessions int              `json:"focus_sessions"`
	FocusMinutes  float64          `json:"focus_minutes"`
	Report        analytics.Report `json:"report"`
}

func newReportCmd(e *env) *cobra.Command {
	var (
		days   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the last N days of habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = e.cfg.Analytics.WindowDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			data, err := e.loadReport(cmd, days)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			}
			renderReport(out, e.stylesFor(out), data)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Window size in days (default: analytics.window_days)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// loadReport reads logs, habits and focus totals for the window ending today.
func (e *env) loadReport(cmd *cobra.Command, days int) (reportData, error) {
	now := e.now()
	y, m, d := now.Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)

	var (
		entries  []analytics.Entry
		habits   []store.Habit
		sessions int
		minutes  float64
	)
	g, _ := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		entries, err = e.store.FetchLogs(e.userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		habits, err = e.store.FetchHabits(e.userID, store.HabitFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		sessions, minutes, err = e.store.FocusStats(e.userID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return reportData{}, fmt.Errorf("load report: %w", err)
	}

	return reportData{
		From:          from.Format(store.DateLayout),
		To:            to.AddDate(0, 0, -1).Format(store.DateLayout),
		Days:          days,
		ActiveHabits:  len(habits),
		FocusSessions: sessions,
		FocusMinutes:  minutes,
		Report:        analytics.Build(entries, now),
	}, nil
}

func renderReport(w io.Writer, st styles, d reportData) {
	r := d.Report
	fmt.Fprintln(w, st.section(fmt.Sprintf("Habits %s to %s", d.From, d.To)))
	fmt.Fprintln(w)

	if r.Summary.Entries == 0 {
		fmt.Fprintln(w, st.muted.Render("No habit logs in this window."))
		return
	}

	rate := st.warning
	if r.Summary.CompletionPercent >= 70 {
		rate = st.success
	}
	fmt.Fprintf(w, "  %-22s %d\n", "Active habits", d.ActiveHabits)
	fmt.Fprintf(w, "  %-22s %s\n", "Completion", rate.Render(fmt.Sprintf("%d%% (%d/%d)", r.Summary.CompletionPercent, r.Summary.Completions, r.Summary.Entries)))
	fmt.Fprintf(w, "  %-22s %d\n", "Active days", r.Summary.ActiveDays)
	fmt.Fprintf(w, "  %-22s %d min\n", "Logged minutes", r.Summary.FocusMinutes)
	fmt.Fprintf(w, "  %-22s %d (%.0f min)\n", "Focus sessions", d.FocusSessions, d.FocusMinutes)
	fmt.Fprintln(w)

	if len(r.Insights) > 0 {
		fmt.Fprintln(w, st.section("Categories"))
		rows := make([][]string, 0, len(r.Insights))
		for _, in := range r.Insights {
			rows = append(rows, []string{
				in.Category,
				fmt.Sprintf("%d min", in.AvgCompletionMinutes),
				in.BestTimeOfDay,
				fmt.Sprintf("%d%%", in.ConsistencyPercent),
				string(in.Trend),
			})
		}
		fmt.Fprintln(w, st.table([]string{"Category", "Avg", "Best time", "Consistency", "Trend"}, rows))
		fmt.Fprintln(w)
	}

	if len(r.Correlations) > 0 {
		fmt.Fprintln(w, st.section("Completed together"))
		rows := make([][]string, 0, 5)
		for _, c := range r.Correlations[:min(5, len(r.Correlations))] {
			rows = append(rows, []string{c.HabitA + " + " + c.HabitB, fmt.Sprintf("%d%%", c.CoCompletionPercent), string(c.Strength)})
		}
		fmt.Fprintln(w, st.table([]string{"Pair", "Together", "Strength"}, rows))
		fmt.Fprintln(w)
	}

	if len(r.TimePatterns) > 0 {
		fmt.Fprintln(w, st.section("Best hours"))
		best := slices.Clone(r.TimePatterns)
		slices.SortStableFunc(best, func(a, b analytics.TimePattern) int {
			return cmp.Compare(b.Completions, a.Completions)
		})
		var hours []string
		for _, p := range best[:min(3, len(best))] {
			hours = append(hours, fmt.Sprintf("%02d:00 (%d done)", p.Hour, p.Completions))
		}
		fmt.Fprintln(w, "  "+strings.Join(hours, "  "))
		fmt.Fprintln(w)
	}

	if len(r.Zones) > 0 {
		fmt.Fprintln(w, st.section("Recent days"))
		zones := r.Zones[max(0, len(r.Zones)-7):]
		rows := make([][]string, 0, len(zones))
		for _, z := range zones {
			rows = append(rows, []string{
				z.Date,
				fmt.Sprintf("%d%%", z.ProductivityPercent),
				fmt.Sprintf("%d%%", z.EnergyPercent),
				fmt.Sprint(z.MoodScore),
				string(z.Zone),
			})
		}
		fmt.Fprintln(w, st.table([]string{"Date", "Productivity", "Energy", "Mood", "Zone"}, rows))
	}
}
