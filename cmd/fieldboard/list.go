package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fieldboard/pkg/board"
	"github.com/aretw0/fieldboard/pkg/core"
)

var (
	listJSON  bool
	listYAML  bool
	listMatch string
)

// listing is the machine-readable form of the board.
type listing struct {
	Groups []groupListing `json:"groups" yaml:"groups"`
}

type groupListing struct {
	core.Group `yaml:",inline"`
	Hidden     bool            `json:"hidden" yaml:"hidden"`
	Items      []core.WorkItem `json:"items" yaml:"items"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups and work items",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if listJSON && listYAML {
			fatal("Invalid flags", fmt.Errorf("--json and --yaml are mutually exclusive"))
		}
		if listMatch != "" && !doublestar.ValidatePattern(listMatch) {
			fatal("Invalid flags", fmt.Errorf("bad --match pattern %q", listMatch))
		}

		b, _ := openBoard(context.Background())
		out := buildListing(b, listMatch)

		switch {
		case listJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fatal("Error encoding JSON", err)
			}
		case listYAML:
			encoder := yaml.NewEncoder(os.Stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(out); err != nil {
				fatal("Error encoding YAML", err)
			}
			_ = encoder.Close()
		default:
			printListing(os.Stdout, out)
		}

		finish(context.Background(), b)
	},
}

// buildListing groups items by owning group. A non-empty match keeps only
// items whose field name matches the glob.
func buildListing(b *board.Board, match string) listing {
	schema := b.Bridge().Schema()
	var out listing
	for _, g := range b.Groups() {
		gl := groupListing{Group: g, Hidden: b.IsHidden(g.ID), Items: []core.WorkItem{}}
		for _, it := range b.ItemsInGroup(g.ID) {
			if match != "" {
				if ok, _ := doublestar.Match(match, schema.ItemName(it.ID)); !ok {
					continue
				}
			}
			gl.Items = append(gl.Items, it)
		}
		out.Groups = append(out.Groups, gl)
	}
	return out
}

func printListing(w io.Writer, l listing) {
	for _, g := range l.Groups {
		suffix := ""
		if g.Hidden {
			suffix = " (hidden)"
		}
		fmt.Fprintf(w, "%s [%s]%s\n", g.Name, g.ID, suffix)
		for _, it := range g.Items {
			line := fmt.Sprintf("  %s  %-11s %-11s %s", it.ID, it.Status, it.Kind, it.Title)
			if len(it.Assignees) > 0 {
				line += " @" + strings.Join(it.Assignees, ",")
			}
			fmt.Fprintln(w, line)
		}
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only items whose field name matches this glob (e.g. 'pm_project_*')")
}
