package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/habitr/internal/analytics"
)

func WriteJSON(w io.Writer, entries []analytics.Entry, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(entries, now)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
