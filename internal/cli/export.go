package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/export"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every habit log",
		Example: `  habitr export --format csv
  habitr export --format json --out habits.json
  habitr export --format yaml --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			now := e.now()
			entries, err := e.store.FetchLogs(e.userID, time.Time{}, now.AddDate(0, 0, 1))
			if err != nil {
				return err
			}

			if out == "-" {
				return export.Write(cmd.OutOrStdout(), f, entries)
			}
			if out == "" {
				out = export.FileName(f, now)
			}
			if err := export.ToFile(out, f, entries); err != nil {
				return err
			}
			e.log.Info("exported habit logs", zap.String("path", out), zap.Int("entries", len(entries)))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, or - for stdout (default: habitr-export-<date>.<ext>)")
	return cmd
}
