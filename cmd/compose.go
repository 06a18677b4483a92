package cmd

import (
	"fmt"
	"os"

	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/message"
	"reviewmsg/pkg/progress"
	"reviewmsg/pkg/proposal"
	"reviewmsg/pkg/shopurl"
	"reviewmsg/pkg/textbuf"

	"github.com/spf13/cobra"
)

var (
	composeShopID    string
	composeURL       string
	composeProposal  string
	composeAI        bool
	composeOutput    string
	composeTreatment message.Treatment
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a post-visit message for a customer",
	Long: `Build the message sent after a visit: greeting, treatment summary, the
review URL of the shop and a hair care proposal. The proposal is either given
with --proposal or generated through Dify with --ai (a demo text is used when
no Dify API key is configured).`,
	Example: `  reviewmsg compose --shop shop_001 --service カット --service カラー \
    --style ナチュラルボブ --hair-length ミディアム --hair-firmness 柔らかめ \
    --stylist 佐藤 --ai --copy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pattern, err := cfg.Pattern()
		if err != nil {
			return err
		}
		if composeShopID == "" && composeURL == "" {
			return errors.ValidationError("either --shop or --url is required")
		}

		ctx, cancel := GetContext()
		defer cancel()

		url := composeURL
		if url == "" {
			client := shopurl.NewClient(cfg.Server.URL, nil)
			var res shopurl.Resolution
			err := progress.Run("Resolving shop URL...", func() error {
				var err error
				res, err = client.Resolve(ctx, composeShopID)
				return err
			})
			if err != nil {
				return errors.NewWithError(errors.ExitCodeResolve, errors.ErrMsgResolveFailed, err)
			}
			if !res.Success {
				return errors.ShopNotFoundError(composeShopID, nil)
			}
			url = res.URL
		}

		text := composeProposal
		if composeAI {
			gen := proposal.NewClient(cfg.Dify.APIURL, cfg.Dify.APIKey, nil)
			text = progress.Run("Generating proposal...", func() string {
				return gen.Generate(ctx, message.BuildQuery(composeTreatment))
			})
		}

		msg := message.Compose(composeTreatment, url, text, pattern)

		if composeOutput != "" {
			if err := os.WriteFile(composeOutput, []byte(msg), 0644); err != nil {
				return errors.NewWithError(errors.ExitCodeFileOperation, fmt.Sprintf("failed to write %s", composeOutput), err)
			}
		} else {
			printMessage(cmd.OutOrStdout(), msg)
		}

		if ShouldCopyOutput(cmd) {
			return copySource(cfg, textbuf.New(msg), true)
		}
		return nil
	},
}

func init() {
	composeCmd.Flags().StringVar(&composeShopID, "shop", "", "Shop id whose review URL goes into the message")
	composeCmd.Flags().StringVar(&composeURL, "url", "", "Review URL to use instead of looking the shop up")
	composeCmd.Flags().StringVar(&composeProposal, "proposal", "", "Hair care proposal text")
	composeCmd.Flags().BoolVar(&composeAI, "ai", false, "Generate the proposal with Dify")
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "Write the message to a file instead of stdout")

	composeCmd.Flags().StringSliceVar(&composeTreatment.Services, "service", nil, "Service used (repeatable)")
	composeCmd.Flags().StringVar(&composeTreatment.Style, "style", "", "Requested style")
	composeCmd.Flags().StringVar(&composeTreatment.Technique, "tech", "", "Special technique")
	composeCmd.Flags().StringVar(&composeTreatment.HairLength, "hair-length", "", "Hair length")
	composeCmd.Flags().StringVar(&composeTreatment.HairFirmness, "hair-firmness", "", "Hair firmness")
	composeCmd.Flags().StringVar(&composeTreatment.Stylist, "stylist", "", "Stylist in charge")
}
