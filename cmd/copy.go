package cmd

import (
	"reviewmsg/pkg/textbuf"

	"github.com/spf13/cobra"
)

var copyNoWait bool

var copyCmd = &cobra.Command{
	Use:   "copy [file]",
	Short: "Copy a message to the clipboard",
	Long: `Copy the whole message to the system clipboard. The native clipboard is
tried first; if it is missing or rejects the write, the text is sent to the
terminal with an OSC 52 escape sequence. If both fail, copy the text manually.`,
	Example: `  # Copy a saved message
  reviewmsg copy message.txt

  # Copy from a pipe
  reviewmsg compose --shop shop_001 ... | reviewmsg copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		return copySource(cfg, textbuf.New(text), !copyNoWait)
	},
}

func init() {
	copyCmd.Flags().BoolVar(&copyNoWait, "no-wait", false, "Return immediately instead of keeping the confirmation on screen")
}
