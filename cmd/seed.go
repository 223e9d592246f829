package cmd

import (
	"github.com/spf13/cobra"

	"mealroute/db"
	"mealroute/logger"
	"mealroute/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default zones and plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		if err := connect(ctx, cfg); err != nil {
			return err
		}
		defer db.Close()

		res, err := services.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		logger.New("seed").Infow("seeded defaults", map[string]any{"zones": res.Zones, "plans": res.Plans})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
