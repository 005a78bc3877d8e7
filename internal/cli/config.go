package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dtmerge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration dtmerge would run with, after applying the config
file, DTMERGE_* environment variables and global flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if jsonOutput {
			out, err := formatJSON(cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}

		out, err := config.Dump(cfg)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}
