package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mealroute/archive"
	"mealroute/db"
	"mealroute/logger"
	"mealroute/metrics"
	"mealroute/models"
	"mealroute/report"
	"mealroute/services"
)

var (
	tasksDate     string
	tasksFormat   string
	tasksOut      string
	tasksSnapshot string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Generate the daily task sheet and export it",
	Example: `  mealroute tasks --date 2024-01-15 --format pdf
  mealroute tasks --snapshot export.json --format csv --out -`,
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksDate, "date", "", "target date YYYY-MM-DD (default today)")
	tasksCmd.Flags().StringVarP(&tasksFormat, "format", "f", report.FormatPDF, "output format: "+strings.Join(report.Formats, "|"))
	tasksCmd.Flags().StringVarP(&tasksOut, "out", "o", "", "output file, - for stdout (default <output_dir>/MealRoute_Tasks_<date>.<format>)")
	tasksCmd.Flags().StringVar(&tasksSnapshot, "snapshot", "", "read clients/staff/plans from a JSON snapshot instead of PostgreSQL")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	log := logger.New("tasks")

	day := models.Today(cfg.Report.Location())
	if tasksDate != "" {
		if day, err = models.ParseDate(tasksDate); err != nil {
			return err
		}
	}
	format, err := report.ParseFormat(tasksFormat)
	if err != nil {
		return err
	}

	var src services.SnapshotSource
	if tasksSnapshot != "" {
		src = services.JSONFileSource{Path: tasksSnapshot}
	} else {
		if err := connect(ctx, cfg); err != nil {
			return err
		}
		defer db.Close()
		src = services.PostgresSource{}
	}

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gen := &services.Generator{Source: src, Sink: metrics.NopSink{}, Archive: store, Log: log}
	tasks, err := gen.Generate(ctx, day, format)
	if err != nil {
		return err
	}

	path := outputPath(tasksOut, cfg.Report.OutputDir, day, format)
	if path == "-" {
		return report.Render(format, cmd.OutOrStdout(), tasks, report.Options{BusinessName: cfg.Report.BusinessName})
	}
	if err := writeFile(path, func(w io.Writer) error {
		return report.Render(format, w, tasks, report.Options{BusinessName: cfg.Report.BusinessName})
	}); err != nil {
		return err
	}
	total := tasks.Totals()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d stops, deliver %d, collect %d\n", path, tasks.ItemCount(), total.Tiffins, total.EmptyBoxes)
	return nil
}

// outputPath resolves --out: "-" is stdout, empty means the default file name in dir.
func outputPath(out, dir string, day models.Date, format string) string {
	if out != "" {
		return out
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, report.Filename(day, format))
}

// writeFile renders into a temp file next to path and renames it, so a
// failed render never leaves a truncated report behind.
func writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mealroute-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := render(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
