package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fieldboard"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fieldboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fieldboard version %s\n", fieldboard.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
