package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fieldevents "github.com/aretw0/fieldboard/pkg/adapters/lifecycle"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/record"
)

var watchAll bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to board fields as they happen",
	Long: `Watch the store for changes made by any process and print one line per field.
Only stores that support change notification (fs) can be watched.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, _ := openBoard(ctx)
		finish(ctx, b)

		watchable, ok := b.Store().(core.Watchable)
		if !ok {
			fatal("Cannot watch", fmt.Errorf("store %T does not report changes", b.Store()))
		}

		events, err := watchable.Watch(ctx)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		schema := b.Bridge().Schema()
		var opts []fieldevents.SourceOption
		if !watchAll {
			opts = append(opts, fieldevents.WithFilter(func(e core.Event) bool {
				return schema.Classify(e.Name) != record.ResultIgnored
			}))
		}

		src := fieldevents.NewSource(events, opts...)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Println("Watching for changes. Press Ctrl+C to stop.")
		for e := range src.Events() {
			fmt.Println(e.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "Include fields that are not board items or groups")
}
