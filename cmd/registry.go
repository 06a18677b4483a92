package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)

	root.AddCommand(copyCmd)
	root.AddCommand(syncCmd)
	root.AddCommand(composeCmd)
	root.AddCommand(serveCmd)
	root.AddCommand(shopsCmd)
	root.AddCommand(configCmd)

	shopsCmd.AddCommand(
		shopsListCmd,
		shopsAddCmd,
	)

	configCmd.AddCommand(
		configShowCmd,
		configInitCmd,
	)
}
