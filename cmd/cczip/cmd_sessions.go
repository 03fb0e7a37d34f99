package main

import (
	"context"
	"fmt"
	"math"

	"cczip/cmd/cczip/ui"

	"github.com/spf13/cobra"
)

// modifiedLayout is the timestamp format of the list view.
const modifiedLayout = "Jan 02 15:04"

// runList prints the project's sessions with their token usage.
func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	loc, err := newLocator()
	if err != nil {
		return err
	}
	infos, err := loc.List(ctx, cfg.CtxLimit)
	if err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	table := ui.NewSimpleTable(fmt.Sprintf("Sessions in %s", loc.Dir),
		[]string{"ID", "TOKENS", "MSGS", "USAGE", "MODIFIED"}).AlignRight(1, 2, 3)
	for _, info := range infos {
		usage := fmt.Sprintf("%d%%", int(math.Round(info.Percent)))
		table.AddRow(
			info.ID,
			comma(info.Tokens),
			comma(info.Messages),
			styles.UsageStyle(info.Percent).Render(usage),
			info.Modified.Format(modifiedLayout),
		)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, table.View(styles))
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Muted.Render("Usage: cczip [SESSION_ID] or cczip [SESSION_ID] [compression]"))
	return nil
}
