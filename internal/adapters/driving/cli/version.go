package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("aerobot version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
