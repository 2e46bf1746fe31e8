package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tsclientgen/am"
	"github.com/teranos/tsclientgen/errors"
)

var initForce bool

// InitCmd writes a starter config
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter " + am.ConfigFileName,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			return errors.Wrap(err, "failed to get working directory")
		}
		path, err := am.WriteDefault(dir, initForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config (the old one is kept as .back1)")
}
