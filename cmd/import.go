package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mealroute/db"
	"mealroute/logger"
	"mealroute/services"
)

var (
	importSnapshot string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load zones, plans, staff and clients from a JSON snapshot",
	Example: `  mealroute import --snapshot export.json
  mealroute import --snapshot export.json --dry-run`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSnapshot, "snapshot", "", "JSON snapshot with zones, plans, staff and clients")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate the snapshot without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importSnapshot == "" {
		return errors.New("--snapshot is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	src := services.JSONFileSource{Path: importSnapshot}
	snap, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if err := services.ValidateSnapshot(snap); err != nil {
		return err
	}
	if importDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d zones, %d plans, %d staff, %d clients OK\n",
			importSnapshot, len(snap.Zones), len(snap.Plans), len(snap.Staff), len(snap.Clients))
		return nil
	}

	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()

	res, err := services.ImportSnapshot(ctx, snap)
	logger.New("import").Infow("snapshot imported", map[string]any{
		"file":    importSnapshot,
		"zones":   res.Zones,
		"plans":   res.Plans,
		"staff":   res.Staff,
		"clients": res.Clients,
	})
	return err
}
