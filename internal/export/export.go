// Package export writes habit log entries as CSV, JSON or YAML.
package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/habitr/internal/analytics"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

var Formats = []Format{CSV, JSON, YAML}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or yaml)", s)
}

// record is the flattened, serialisable form of one habit log entry.
type record struct {
	Date            string   `json:"date" yaml:"date"`
	HabitID         int64    `json:"habit_id" yaml:"habit_id"`
	Habit           string   `json:"habit" yaml:"habit"`
	Category        string   `json:"category" yaml:"category"`
	Completed       bool     `json:"completed" yaml:"completed"`
	CompletedAt     string   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	FocusScore      *float64 `json:"focus_score,omitempty" yaml:"focus_score,omitempty"`
}

type document struct {
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Count      int      `json:"count" yaml:"count"`
	Entries    []record `json:"entries" yaml:"entries"`
}

func toRecord(e analytics.Entry) record {
	r := record{
		Date:            e.DayKey(),
		HabitID:         e.HabitID,
		Habit:           e.HabitName,
		Category:        e.Category,
		Completed:       e.Completed,
		DurationMinutes: e.DurationMinutes,
		FocusScore:      e.FocusScore,
	}
	if e.CompletedAt != nil {
		r.CompletedAt = e.CompletedAt.Local().Format(time.RFC3339)
	}
	return r
}

func newDocument(entries []analytics.Entry, now time.Time) document {
	doc := document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(entries),
		Entries:    make([]record, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, toRecord(e))
	}
	return doc
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, f Format, entries []analytics.Entry) error {
	switch f {
	case CSV:
		return WriteCSV(w, entries)
	case JSON:
		return WriteJSON(w, entries, time.Now())
	case YAML:
		return WriteYAML(w, entries, time.Now())
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes entries to path, replacing any existing file.
func ToFile(path string, f Format, entries []analytics.Entry) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", f, err)
	}
	if err := Write(out, f, entries); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s file: %w", f, err)
	}
	return nil
}

// FileName is the default export name for a given day.
func FileName(f Format, day time.Time) string {
	return fmt.Sprintf("habitr-export-%s.%s", day.Format("2006-01-02"), f)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
