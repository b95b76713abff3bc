package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/directory"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the merged client and internal user directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		b, act := openBoard(ctx)

		printUsers(os.Stdout, b.Users())

		for _, id := range act.Collisions {
			fmt.Fprintf(os.Stderr, "warning: id %s is both a client and an internal user\n", id)
		}
		finish(ctx, b)
	},
}

// printUsers lists clients first, then internal users.
func printUsers(out io.Writer, users []core.UnifiedUser) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTYPE")
	for _, origin := range []core.Origin{core.OriginClient, core.OriginInternal} {
		for _, u := range directory.ByOrigin(users, origin) {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", u.ID, u.GivenName, u.FamilyName, u.Email, u.Origin)
		}
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
