package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewmsg/pkg/completions"
	"reviewmsg/pkg/config"
	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/logger"
	"reviewmsg/pkg/shops"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var globalTimeout time.Duration
var outputFormat string
var copyToClipboardFlag bool
var logLevel string
var configPathFlag string
var profileFlag string

var rootCmd = &cobra.Command{
	Use:   "reviewmsg",
	Short: "Salon review message tool",
	Long: `Composes the post-visit message sent to salon customers, keeps the review
URL inside it in sync with the selected shop, and copies it to the clipboard.
Also serves the shop URL lookup endpoint. Configuration lives in the XDG config
directory; shops are kept in a local SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set log level: explicit flag takes precedence over env var
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if envLevel := os.Getenv("REVIEWMSG_LOG_LEVEL"); envLevel != "" {
				level = envLevel
			}
		}
		logger.SetLevel(level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "reviewmsg version %s\n", ver)
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", bt)
		fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", gc)
	},
}

func Execute() {
	completions.RegisterCompletions(rootCmd, openCompletionStore)
	if err := rootCmd.Execute(); err != nil {
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

// GetContext returns a context cancelled on SIGINT/SIGTERM and, when
// --timeout is set, after that long. Network calls carry no timeout otherwise.
func GetContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if globalTimeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, globalTimeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

func loadConfig() (*config.Config, error) {
	path := configPathFlag
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
		}
		path = p
	}
	return config.LoadFrom(path, profileFlag)
}

// openCompletionStore opens the shop store without seeding, for shell completion.
func openCompletionStore(ctx context.Context) (completions.ShopLister, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := shops.Open(cfg.Server.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().DurationVar(&globalTimeout, "timeout", 0, "Timeout for network calls (e.g., 30s, 1m); 0 waits indefinitely")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&copyToClipboardFlag, "copy", false, "Copy the resulting message to the clipboard")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Config file (default ~/.config/reviewmsg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Configuration profile to use")
}
