package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/dtmerge/internal/engine"
)

var (
	// fatih/color disables these when stdout is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
	fmt.Println()
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	fmt.Println(msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Printf("  %s: ", label)
	_, _ = valueColor.Println(value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Printf("%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple column table
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	_, _ = headerColor.Print("  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Print("  ")
		}
		_, _ = headerColor.Printf("%-*s", colWidths[i], header)
	}
	fmt.Println()

	fmt.Print("  ")
	for i, width := range colWidths {
		if i > 0 {
			fmt.Print("  ")
		}
		fmt.Print(strings.Repeat("-", width))
	}
	fmt.Println()

	for _, row := range rows {
		fmt.Print("  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				fmt.Print("  ")
			}
			_, _ = valueColor.Printf("%-*s", colWidths[i], cell)
		}
		fmt.Println()
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Printf("  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// PrintOutputs prints one row per planned or written output.
func PrintOutputs(outputs []engine.OutputInfo) {
	if len(outputs) == 0 {
		PrintEmptyState("No outputs")
		return
	}
	rows := make([][]string, 0, len(outputs))
	for _, out := range outputs {
		techpacks := "-"
		if len(out.Techpacks) > 0 {
			techpacks = strings.Join(out.Techpacks, ", ")
		}
		rows = append(rows, []string{out.Name, out.Operation, out.Identity, techpacks})
	}
	PrintTable([]string{"OUTPUT", "OP", "IDENTITY", "TECHPACKS"}, rows)
}

// PrintConflicts prints planning conflicts to stderr.
func PrintConflicts(result *engine.PlanResult) {
	if result == nil || result.Plan == nil || !result.Plan.HasConflicts() {
		return
	}
	PrintError(fmt.Sprintf("%s detected:", PrintCount(len(result.Plan.Conflicts), "conflict", "conflicts")))
	for _, c := range result.Plan.Conflicts {
		_, _ = fmt.Fprintf(os.Stderr, "  %s: %s\n", c.Name, c.Reason)
		if c.Existing != "" {
			_, _ = fmt.Fprintf(os.Stderr, "    existing: %s\n", c.Existing)
		}
		_, _ = fmt.Fprintf(os.Stderr, "    incoming: %s\n", c.Incoming)
	}
}

// PrintUnmatched warns about techpacks that applied to no base.
func PrintUnmatched(unmatched []string) {
	if len(unmatched) == 0 {
		return
	}
	PrintWarning(fmt.Sprintf("%s matched no base:", PrintCount(len(unmatched), "techpack", "techpacks")))
	PrintList(unmatched, 1)
}
