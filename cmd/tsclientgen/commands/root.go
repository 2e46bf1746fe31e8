package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/logger"
)

// RootCmd is the tsclientgen entry point
var RootCmd = &cobra.Command{
	Use:   "tsclientgen",
	Short: "Generate TypeScript client SDKs from an API definition",
	Long: `tsclientgen turns an API intermediate representation (JSON, YAML or TOML)
into a TypeScript client package: model types, discriminated unions,
request/response envelopes, fetch-based service clients and WebSocket
channels with request/response correlation.

Available commands:
  generate - Generate the client package
  check    - Fail if the generated package on disk is out of date
  watch    - Regenerate whenever the IR or config changes
  init     - Write a starter tsclientgen.toml
  call     - Send one request over a WebSocket channel
  version  - Show version information

Examples:
  tsclientgen init
  tsclientgen generate -v
  tsclientgen check --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: tsclientgen.toml found from the working directory up)")
	RootCmd.PersistentFlags().Bool("json", false, "Emit JSON logs and progress events")
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(CallCmd)
	RootCmd.AddCommand(VersionCmd)
}
