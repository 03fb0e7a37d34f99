package main

import (
	"fmt"
	"path/filepath"

	"cczip/cmd/cczip/ui"
	"cczip/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runRestore copies the newest backup back over the session.
func runRestore(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	path, err := resolveSession(arg)
	if err != nil {
		return err
	}

	backup, err := session.Restore(path)
	if err != nil {
		return err
	}
	logger.Info("session restored", zap.String("path", path), zap.String("backup", backup.Path))

	styles := ui.DefaultStyles()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s from %s (%s)\n",
		styles.Tag(styles.Success, "RESTORED"), path, filepath.Base(backup.Path),
		backup.Created.Format("2006-01-02 15:04:05"))
	return nil
}
