package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the TypeScript client package",
	Long: `Generate the client package described by tsclientgen.toml.

Only files whose content changed are rewritten. With generator.prune set,
generated .ts files that the IR no longer produces are removed.

Examples:
  tsclientgen generate
  tsclientgen generate --config api/tsclientgen.toml -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = newPipeline(cfg, newSink(cmd, cfg)).run(cmd.Context(), afero.NewOsFs(), cfg.Generator.Output, cfg.Generator.Prune)
		return err
	},
}
