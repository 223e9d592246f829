package cmd

import (
	"github.com/spf13/cobra"

	"mealroute/archive"
	"mealroute/bot"
	"mealroute/db"
	"mealroute/logger"
	"mealroute/metrics"
	"mealroute/services"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		log := logger.New("main")

		if err := connect(ctx, cfg); err != nil {
			return err
		}
		defer db.Close()

		store, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Errorf("archive close: %v", err)
			}
		}()

		var sink metrics.TaskSink = metrics.NopSink{}
		if cfg.Metrics.Addr != "" {
			prom, err := metrics.NewPromSink(nil)
			if err != nil {
				return err
			}
			sink = prom
			go func() {
				if err := metrics.StartPromServer(ctx, cfg.Metrics.Addr, nil, logger.New("metrics")); err != nil {
					log.Errorf("metrics server: %v", err)
				}
			}()
		}

		b, err := bot.New(cfg, bot.Deps{
			Generator: &services.Generator{
				Source:  services.PostgresSource{},
				Sink:    sink,
				Archive: store,
				Log:     logger.New("tasks"),
			},
			Sink:    sink,
			Archive: store,
			Log:     logger.New("bot"),
		})
		if err != nil {
			return err
		}
		log.Infof("bot started")
		b.Start(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
