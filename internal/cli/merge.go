package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dtmerge/internal/engine"
)

var (
	mergeBaseDir     string
	mergeTechpackDir string
	mergeOutDir      string
	mergeStrictCheck bool
	mergeDryRun      bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge techpacks into base blobs and write the outputs",
	Long: `Merge every techpack found under --techpacks into the base blobs found under
--base and write the results to --out.

A base is split into one output per distinct set of applicable techpacks.
Outputs are produced in a staging directory and only moved into --out once
every output has been produced. Overlay outputs are then checked against the
base outputs they target; use --strict-check to fail the run on a check
failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, sync, err := newEngine()
		if err != nil {
			return err
		}
		defer sync()

		req := &engine.MergeRequest{
			BaseDir:     mergeBaseDir,
			TechpackDir: mergeTechpackDir,
			OutDir:      mergeOutDir,
			StrictCheck: mergeStrictCheck,
			DryRun:      mergeDryRun,
		}

		result, err := eng.Merge(cmd.Context(), req)
		if err != nil {
			if result != nil {
				PrintConflicts(&result.PlanResult)
				printCheckFailures(result.CheckFailures)
			}
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintUnmatched(result.Unmatched)
		printCheckFailures(result.CheckFailures)

		if mergeDryRun {
			PrintSection("Dry Run")
			PrintInfo(fmt.Sprintf("Would write %s", PrintCount(len(result.Outputs), "output", "outputs")))
			PrintOutputs(result.Outputs)
			return nil
		}

		PrintOutputs(result.Outputs)
		fmt.Println()
		PrintSuccess(fmt.Sprintf("Wrote %s in %s", PrintCount(len(result.Outputs), "output", "outputs"), result.Elapsed.Round(time.Millisecond)))
		PrintLabelValue("Output", mergeOutDir)
		if result.Checked > 0 {
			PrintLabelValue("Checked", PrintCount(result.Checked, "overlay", "overlays"))
		}
		return nil
	},
}

func printCheckFailures(failures []engine.CheckFailure) {
	if len(failures) == 0 {
		return
	}
	PrintWarning(fmt.Sprintf("%s:", PrintCount(len(failures), "overlay does not apply", "overlays do not apply")))
	items := make([]string, 0, len(failures))
	for _, f := range failures {
		items = append(items, fmt.Sprintf("%s on %s: %s", f.Overlay, f.Base, f.Error))
	}
	PrintList(items, 1)
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeBaseDir, "base", "b", "", "Directory of base blobs (searched recursively)")
	mergeCmd.Flags().StringVarP(&mergeTechpackDir, "techpacks", "t", "", "Directory of techpack overlays (searched recursively)")
	mergeCmd.Flags().StringVarP(&mergeOutDir, "out", "o", "", "Output directory")
	mergeCmd.Flags().BoolVar(&mergeStrictCheck, "strict-check", false, "Fail when an overlay output does not apply to its base")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Show what would be written without writing")
	_ = mergeCmd.MarkFlagRequired("base")
	_ = mergeCmd.MarkFlagRequired("techpacks")
	_ = mergeCmd.MarkFlagRequired("out")
}
