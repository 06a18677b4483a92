package cmd

import (
	"fmt"

	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/logger"
	"reviewmsg/pkg/progress"
	"reviewmsg/pkg/shopurl"
	"reviewmsg/pkg/textbuf"
	"reviewmsg/pkg/urlsync"

	"github.com/spf13/cobra"
)

var (
	syncShopID string
	syncStrict bool
)

type syncBuffer interface {
	urlsync.Buffer
	Select(start, end int)
	SelectedText() string
	ClearSelection()
}

var syncCmd = &cobra.Command{
	Use:   "sync [file]",
	Short: "Point the review URL in a message at another shop",
	Long: `Resolve the review URL of a shop through the lookup server and rewrite the
URL inside the message's review phrase. Everything else in the message is left
as is. If the lookup fails, or the review phrase was edited away, the message
is not changed.

A file argument is rewritten in place; without one the message is read from
stdin and written to stdout.`,
	Example: `  reviewmsg sync --shop shop_002 message.txt
  cat message.txt | reviewmsg sync --shop shop_003 --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pattern, err := cfg.Pattern()
		if err != nil {
			return err
		}

		var buf syncBuffer
		var file *textbuf.File
		if len(args) == 1 && args[0] != "-" {
			file, err = textbuf.Open(args[0])
			if err != nil {
				return errors.NewWithError(errors.ExitCodeFileOperation, fmt.Sprintf("failed to read %s", args[0]), err)
			}
			buf = file
		} else {
			text, err := readInput(cmd, "")
			if err != nil {
				return err
			}
			buf = textbuf.New(text)
		}

		ctx, cancel := GetContext()
		defer cancel()

		syncer := urlsync.New(shopurl.NewClient(cfg.Server.URL, nil), pattern)
		before := buf.Text()
		result := progress.Run("Resolving shop URL...", func() urlsync.Result {
			return syncer.Sync(ctx, syncShopID, buf)
		})

		if syncStrict && result != urlsync.Updated && result != urlsync.Skipped {
			return errors.NewWithSuggestion(errors.ExitCodeResolve,
				fmt.Sprintf("%s: %s", errors.ErrMsgResolveFailed, result),
				"Check that the lookup server is running and the shop id exists ('reviewmsg shops list').")
		}

		switch result {
		case urlsync.ResolveFailed, urlsync.Rejected, urlsync.PatternMissing:
			logger.Warn().Str("shop_id", syncShopID).Str("result", result.String()).Msg("review URL left unchanged")
		}

		if dryRunFlag {
			if buf.Text() == before {
				PrintDryRun(cmd.ErrOrStderr(), "No change (%s)", result)
			} else {
				PrintDryRun(cmd.ErrOrStderr(), "Would rewrite review URL (%s)", result)
				printMessage(cmd.OutOrStdout(), buf.Text())
			}
			return nil
		}

		if file != nil {
			if result == urlsync.Updated {
				if err := file.Save(); err != nil {
					return errors.NewWithError(errors.ExitCodeFileOperation, "failed to save message", err)
				}
			}
		} else {
			printMessage(cmd.OutOrStdout(), buf.Text())
		}

		if ShouldCopyOutput(cmd) {
			return copySource(cfg, buf, true)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncShopID, "shop", "", "Shop id to resolve (empty leaves the message unchanged)")
	syncCmd.Flags().BoolVar(&syncStrict, "strict", false, "Exit with an error when the URL could not be updated")
	syncCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show the result without writing the file")
}
