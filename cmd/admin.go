package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mealroute/db"
	"mealroute/services"
)

var (
	adminGenerate bool
	adminEmail    string
	adminName     string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the bot admin account",
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Set the admin password used by /login",
	Long:  "Reads the new password from stdin, or generates one with --generate and prints it once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if adminGenerate {
			p, err := services.GenerateSecurePassword()
			if err != nil {
				return err
			}
			plain = p
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			plain = strings.TrimSpace(line)
		}
		if len(plain) < services.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters", services.MinPasswordLength)
		}

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

		if err := services.SetAdminPassword(ctx, adminEmail, adminName, plain); err != nil {
			return err
		}
		if adminGenerate {
			fmt.Fprintf(cmd.OutOrStdout(), "Admin password: %s\nStore it now; it is not shown again.\n", plain)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin password updated.")
		}
		return nil
	},
}

func init() {
	setPasswordCmd.Flags().BoolVar(&adminGenerate, "generate", false, "generate a random password")
	setPasswordCmd.Flags().StringVar(&adminEmail, "email", services.DefaultAdminEmail, "admin email")
	setPasswordCmd.Flags().StringVar(&adminName, "name", "Admin", "admin display name")
	adminCmd.AddCommand(setPasswordCmd)
	rootCmd.AddCommand(adminCmd)
}
