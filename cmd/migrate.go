package cmd

import (
	"github.com/spf13/cobra"

	"mealroute/db"
	"mealroute/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		if err := db.Init(ctx, cfg.DB); err != nil {
			return err
		}
		defer db.Close()

		log := logger.New("migrate")
		if err := db.ApplyMigrations(ctx, func(name string) { log.Infof("applied %s", name) }); err != nil {
			return err
		}
		log.Infof("migrations complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
