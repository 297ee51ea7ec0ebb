package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

func newHabitCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habit definitions",
	}
	cmd.AddCommand(newHabitAddCmd(e), newHabitListCmd(e), newHabitArchiveCmd(e))
	return cmd
}

func newHabitAddCmd(e *env) *cobra.Command {
	var (
		category string
		target   float64
		unit     string
		color    string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit",
		Example: `  habitr habit add "Deep Work" --category work --target 50 --unit minutes
  habitr habit add Pushups --category fitness --target 30 --unit times`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("habit name is required")
			}
			if target < 0 {
				return fmt.Errorf("target must not be negative")
			}
			h, err := e.store.CreateHabit(e.userID, name, category, target, unit)
			if err != nil {
				return err
			}
			if color != "" {
				if err := e.store.SetHabitColor(h.ID, color); err != nil {
					return err
				}
			}
			e.log.Info("habit created", zap.Int64("habit_id", h.ID), zap.String("name", h.Name))
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit %q (id %d)\n", h.Name, h.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "general", "Category used for insights and streaks")
	cmd.Flags().Float64Var(&target, "target", 0, "Daily target value")
	cmd.Flags().StringVar(&unit, "unit", "minutes", "Unit of the target (minutes, hours, times, ...)")
	cmd.Flags().StringVar(&color, "color", "", "Hex color shown in the TUI")
	return cmd
}

func newHabitListCmd(e *env) *cobra.Command {
	var (
		archived bool
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			habits, err := e.store.FetchHabits(e.userID, store.HabitFilter{Category: category, IncludeArchived: archived})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st := e.stylesFor(out)
			if len(habits) == 0 {
				fmt.Fprintln(out, st.muted.Render("No habits yet. Add one with: habitr habit add <name>"))
				return nil
			}

			rows := make([][]string, 0, len(habits))
			for _, h := range habits {
				target := "-"
				if h.TargetValue > 0 {
					target = fmt.Sprintf("%g %s", h.TargetValue, h.Unit)
				}
				status := "active"
				if h.Archived {
					status = "archived"
				}
				rows = append(rows, []string{fmt.Sprint(h.ID), h.Name, h.Category, target, status})
			}
			fmt.Fprintln(out, st.table([]string{"ID", "Name", "Category", "Target", "Status"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived habits")
	cmd.Flags().StringVar(&category, "category", "", "Only list one category")
	return cmd
}

func newHabitArchiveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <name>",
		Short: "Archive a habit, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := e.store.GetHabitByName(e.userID, args[0])
			if err != nil {
				return err
			}
			if err := e.store.ArchiveHabit(h.ID); err != nil {
				return err
			}
			e.log.Info("habit archived", zap.Int64("habit_id", h.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %q\n", h.Name)
			return nil
		},
	}
}
