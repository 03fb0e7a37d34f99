package main

import (
	"context"
	"fmt"

	"cczip/cmd/cczip/ui"
	"cczip/internal/session"

	"github.com/spf13/cobra"
)

// runContext prints the usage gauge for a session.
func runContext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	path, err := resolveSession(arg)
	if err != nil {
		return err
	}

	usage, err := session.MeasureUsage(ctx, path, cfg.CtxLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.Gauge(ui.DefaultStyles(), usage.Tokens, usage.Limit, "Context Usage"))
	fmt.Fprintf(out, "  Total messages: %s\n", comma(usage.Turns))
	return nil
}
