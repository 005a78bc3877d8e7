package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dtmerge/internal/identity"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <blob>",
	Short: "Show the identity and symbols of a blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, sync, err := newEngine()
		if err != nil {
			return err
		}
		defer sync()

		result, err := eng.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Blob")
		PrintLabelValue("Path", result.Path)
		PrintLabelValue("Kind", result.Kind)
		for _, ax := range identity.AxisIDs {
			PrintLabelValue(ax.String(), result.Identity[ax.String()])
		}
		PrintLabelValue("Exports", joinOrDash(result.Exports))
		PrintLabelValue("Imports", joinOrDash(result.Imports))
		return nil
	},
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
