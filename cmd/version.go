package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// versionCmd returns the caller's installed nova16 version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Retrieve the currently installed nova16 version",
	Long:  "Run `nova16 version` to get your current nova16 version",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	if len(args) != 0 {
		fmt.Println("The version command does not take any arguments")
		os.Exit(1)
	}
	fmt.Println(currentReleaseVersion)
}
