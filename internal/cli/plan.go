package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dtmerge/internal/engine"
)

var (
	planBaseDir     string
	planTechpackDir string
	planOutDir      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how bases would be split without running any merge",
	Long: `Resolve the partitions of every base and print the outputs a merge would
produce, in dependency order, without invoking the overlay tools.

If --out is given, output names are also checked against existing files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, sync, err := newEngine()
		if err != nil {
			return err
		}
		defer sync()

		req := &engine.PlanRequest{
			BaseDir:     planBaseDir,
			TechpackDir: planTechpackDir,
			OutDir:      planOutDir,
		}

		result, err := eng.Plan(cmd.Context(), req)
		if err != nil {
			PrintConflicts(result)
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Techpacks")
		if len(result.Techpacks) == 0 {
			PrintEmptyState("No techpacks")
		}
		for i, tp := range result.Techpacks {
			PrintInfo(fmt.Sprintf("  %d. %s", i+1, tp))
		}

		PrintSection("Outputs")
		PrintOutputs(result.Outputs)
		fmt.Println()
		PrintUnmatched(result.Unmatched)
		PrintInfo(fmt.Sprintf("%s from %s", PrintCount(len(result.Outputs), "output", "outputs"), PrintCount(len(result.Bases), "base", "bases")))
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planBaseDir, "base", "b", "", "Directory of base blobs (searched recursively)")
	planCmd.Flags().StringVarP(&planTechpackDir, "techpacks", "t", "", "Directory of techpack overlays (searched recursively)")
	planCmd.Flags().StringVarP(&planOutDir, "out", "o", "", "Output directory to check names against")
	_ = planCmd.MarkFlagRequired("base")
	_ = planCmd.MarkFlagRequired("techpacks")
}
