package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/fieldboard"
	"github.com/aretw0/fieldboard/pkg/board"
)

var (
	verbose     bool
	configPath  string
	sessionPath string
	waitTimeout time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fieldboard",
	Short: "A project board persisted as custom fields",
	Long: `fieldboard keeps work items and groups in a key-value custom-field store.
Changes apply locally at once and are written back in the background.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nearest fieldboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "session.yaml", "Session file (user, token, directory)")
	rootCmd.PersistentFlags().DurationVar(&waitTimeout, "wait", 30*time.Second, "How long to wait for pending writes")
}

// openBoard builds and activates a board from the config and session files.
func openBoard(ctx context.Context) (*board.Board, board.Activation) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		found, err := fieldboard.FindConfig(wd)
		if err != nil && !errors.Is(err, fieldboard.ErrNoConfig) {
			fatal("Failed to locate config", err)
		}
		path = found
	}

	var cfg fieldboard.Config
	if path != "" {
		var err error
		if cfg, err = fieldboard.LoadConfig(path); err != nil {
			fatal("Failed to load config", err)
		}
		slog.Debug("config loaded", "path", path)
	}

	opts, err := cfg.Options()
	if err != nil {
		fatal("Invalid config", err)
	}
	opts = append(opts, fieldboard.WithLogger(slog.Default()))

	session, err := fieldboard.LoadSession(sessionPath)
	if err != nil {
		fatal("Failed to load session", err)
	}

	b, err := fieldboard.New(opts...)
	if err != nil {
		fatal("Failed to open store", err)
	}

	act := b.Activate(ctx, session)
	if act.ListErr != nil {
		slog.Warn("store unreachable, working on local defaults", "error", act.ListErr)
	}
	return b, act
}

// finish waits for pending writes and exits non-zero if any entity failed to persist.
func finish(ctx context.Context, b *board.Board) {
	ctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	if err := b.Wait(ctx); err != nil {
		fatal("Timed out waiting for pending writes", err)
	}

	failed := b.Failed()
	for _, c := range failed {
		fmt.Fprintf(os.Stderr, "not saved: %s %s: %v\n", c.Kind, c.ID, c.Err)
	}
	if len(failed) > 0 {
		fatal("Some changes were not saved", fmt.Errorf("%d failed %s", len(failed), plural(len(failed), "write")))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
