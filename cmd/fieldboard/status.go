package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fieldboard/pkg/core"
)

var statusCmd = &cobra.Command{
	Use:   "status <item-id> <status>",
	Short: "Change the status of a work item",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		b, _ := openBoard(ctx)

		item, err := b.UpdateStatus(ctx, args[0], core.Status(args[1]))
		if err != nil {
			fatal("Failed to update status", err)
		}

		finish(ctx, b)
		fmt.Printf("%s is now %s.\n", item.ID, item.Status)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
