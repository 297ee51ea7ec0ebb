package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sadopc/habitr/internal/analytics"
)

var csvHeader = []string{"Date", "Habit ID", "Habit", "Category", "Completed", "Completed At", "Duration (min)", "Focus Score"}

func WriteCSV(w io.Writer, entries []analytics.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		r := toRecord(e)
		row := []string{
			r.Date,
			strconv.FormatInt(r.HabitID, 10),
			r.Habit,
			r.Category,
			strconv.FormatBool(r.Completed),
			r.CompletedAt,
			formatFloat(r.DurationMinutes),
			formatFloat(r.FocusScore),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
