package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fieldboard/pkg/core"
)

var (
	addTitle     string
	addKind      string
	addStatus    string
	addGroup     string
	addAssignees []string
	addDate      string
	addPlatform  string
	addContent   string
	addNotes     string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a work item",
	Long: `Create a work item in the given group (or the first group) and persist it.
Kind defaults to task and status to upcoming.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if addTitle == "" {
			fatal("Invalid flags", fmt.Errorf("--title is required"))
		}

		ctx := context.Background()
		b, _ := openBoard(ctx)

		item, err := b.CreateItem(ctx, core.ItemDraft{
			Title:     addTitle,
			Kind:      core.ItemKind(addKind),
			Status:    core.Status(addStatus),
			Assignees: addAssignees,
			Date:      addDate,
			Platform:  addPlatform,
			Content:   addContent,
			Notes:     addNotes,
			GroupID:   addGroup,
		})
		if err != nil {
			fatal("Failed to create item", err)
		}

		finish(ctx, b)
		fmt.Printf("Created %s in %s.\n", item.ID, item.GroupID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Item title (required)")
	addCmd.Flags().StringVar(&addKind, "kind", "", "task, social-post or milestone")
	addCmd.Flags().StringVar(&addStatus, "status", "", "upcoming, in-progress, done, stuck or scheduled")
	addCmd.Flags().StringVar(&addGroup, "group", "", "Owning group id")
	addCmd.Flags().StringSliceVar(&addAssignees, "assignee", nil, "Assignee user id (repeatable)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Due date")
	addCmd.Flags().StringVar(&addPlatform, "platform", "", "Social platform (social-post only)")
	addCmd.Flags().StringVar(&addContent, "content", "", "Post content (social-post only)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
}
