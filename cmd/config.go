package cmd

import (
	"fmt"
	"os"

	"reviewmsg/pkg/config"
	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/proposal"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage reviewmsg configuration",
	Long:  `Show or create the reviewmsg configuration, including the review phrase around the URL and per-locale profiles.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := NewOutputWriter(outputFormat, cmd.OutOrStdout())
		if out.IsStructured() {
			redacted := *cfg
			if redacted.Dify.APIKey != "" {
				redacted.Dify.APIKey = "(set)"
			}
			return out.Write(redacted)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Current Configuration:")
		fmt.Fprintln(w, "======================")
		fmt.Fprintf(w, "Active Profile: %s\n", func() string {
			if cfg.ActiveProfile == "" {
				return "(none)"
			}
			return cfg.ActiveProfile
		}())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Server URL: %s\n", cfg.Server.URL)
		fmt.Fprintf(w, "Listen Address: %s\n", cfg.Server.ListenAddr)
		fmt.Fprintf(w, "Shop Store: %s\n", cfg.Server.DBPath)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Review Phrase: %s<url>%s\n", cfg.Template.Lead, cfg.Template.Trailing)
		fmt.Fprintf(w, "Notification: %s\n", cfg.Clipboard.NotifyDuration)
		fmt.Fprintf(w, "Dify Key: %s\n", func() string {
			if cfg.Dify.APIKey == "" || cfg.Dify.APIKey == proposal.PlaceholderAPIKey {
				return "(not set)"
			}
			return "(set)"
		}())

		if len(cfg.Profiles) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Available Profiles:")
			for _, name := range cfg.ListProfiles() {
				active := ""
				if cfg.ActiveProfile == name {
					active = " (active)"
				}
				fmt.Fprintf(w, "  - %s%s\n", name, active)
			}
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPathFlag
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
			}
			path = p
		}

		if _, err := os.Stat(path); err == nil {
			ok, err := ConfirmPrompt(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite?", path))
			if err != nil {
				return err
			}
			if !ok {
				return errors.CancelledError("config init")
			}
		}

		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&assumeYesFlag, "yes", "y", false, "Overwrite without asking")
}
