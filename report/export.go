package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"mealroute/models"
)

// Export formats.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists every format Render accepts.
var Formats = []string{FormatPDF, FormatXLSX, FormatCSV, FormatJSON}

// Options tune the rendered documents.
type Options struct {
	BusinessName string
}

// ParseFormat normalizes format and reports ErrUnknownFormat for anything
// Render would reject.
func ParseFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename is the download name of a report for day.
func Filename(day models.Date, ext string) string {
	return fmt.Sprintf("MealRoute_Tasks_%s.%s", day, strings.TrimPrefix(ext, "."))
}

// Render writes tasks to w in format.
func Render(format string, w io.Writer, tasks models.DailyTasks, opts Options) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF:
		return WritePDF(w, tasks, opts)
	case FormatXLSX:
		return WriteXLSX(w, tasks)
	case FormatCSV:
		return WriteCSV(w, tasks)
	case FormatJSON:
		return WriteJSON(w, tasks)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteJSON writes the task mapping to w.
func WriteJSON(w io.Writer, tasks models.DailyTasks) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

// WriteCSV writes Rows to w with a Columns header.
func WriteCSV(w io.Writer, tasks models.DailyTasks) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range Rows(tasks) {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
