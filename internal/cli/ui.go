package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/recipesync/pkg/pipeline"
	"github.com/matzehuels/recipesync/pkg/updater"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Run Results
// =============================================================================

// renderResult formats one recipe outcome as a single line.
func renderResult(r pipeline.Result) string {
	var icon string
	switch r.Outcome {
	case updater.OutcomeUpdated:
		icon = styleIconSuccess.Render(iconSuccess)
	case updater.OutcomeWouldUpdate:
		icon = styleIconWarning.Render(iconWarning)
	case updater.OutcomeFailed:
		icon = styleIconError.Render(iconError)
	default:
		icon = styleIconInfo.Render(iconInfo)
	}

	line := icon + " " + StyleValue.Render(r.Package)
	switch {
	case r.Upstream != "" && r.Upstream != r.Current:
		line += " " + StyleDim.Render(r.Current) + " " + StyleDim.Render(iconArrow) + " " + StyleHighlight.Render(r.Upstream)
	case r.Current != "":
		line += " " + StyleDim.Render(r.Current)
	}
	line += " " + StyleDim.Render("("+strings.ReplaceAll(string(r.Outcome), "_", " ")+")")
	if r.Ambiguous {
		line += " " + StyleDim.Render("[first of several sources]")
	}
	if r.Error != "" {
		line += "\n  " + StyleDim.Render(r.Error)
	}
	return line
}

// renderSummary formats the aggregate counters of a run.
func renderSummary(report *pipeline.Report, opts pipeline.Options) string {
	var b strings.Builder
	row := func(key string, n int, style lipgloss.Style) {
		keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(24)
		b.WriteString("  " + keyStyle.Render(key) + " " + style.Render(strconv.Itoa(n)) + "\n")
	}

	b.WriteString(StyleTitle.Render("Summary") + "\n")
	row("Total packages", report.TotalPackages, StyleNumber)

	if opts.CondaForge {
		b.WriteString(StyleTitle.Render("Conda-forge") + "\n")
		row("Found", report.PackagesOnCondaForge, StyleNumber)
		row("Not found", report.PackagesNotOnCondaForge, StyleNumber)
		if report.CondaForgeNewer > 0 {
			row("Newer on conda-forge", report.CondaForgeNewer, StyleWarning)
		}
	}

	b.WriteString(StyleTitle.Render("Updates") + "\n")
	if opts.DryRun {
		row("Would update", countOutcome(report, updater.OutcomeWouldUpdate), StyleWarning)
	} else {
		row("Updated", report.PackagesUpdated, StyleSuccess)
	}
	row("Up to date", report.PackagesUpToDate, StyleSuccess)
	if report.UpstreamNewer > 0 {
		row("Upstream newer", report.UpstreamNewer, StyleWarning)
	}
	if report.UnsupportedSources > 0 {
		row("Unsupported sources", report.UnsupportedSources, StyleWarning)
	}

	if len(report.ErrorDetails) > 0 {
		b.WriteString(styleIconError.Render(fmt.Sprintf("Errors (%d)", len(report.ErrorDetails))) + "\n")
		for _, e := range report.ErrorDetails {
			b.WriteString("  " + styleIconError.Render(iconError) + " " + StyleValue.Render(e.Package) + " " +
				StyleDim.Render(string(e.Code)+": "+e.Message) + "\n")
		}
	}

	ok := report.PackagesUpdated + report.PackagesUpToDate
	b.WriteString(StyleDim.Render("Success rate") + " " +
		StyleNumber.Render(fmt.Sprintf("%.1f%%", report.SuccessRate())) + " " +
		StyleDim.Render(fmt.Sprintf("(%d/%d)", ok, report.TotalPackages)) + "\n")

	if report.PackagesUpdated == 0 && report.PackagesWithErrors == 0 && report.PackagesUpToDate > 0 &&
		countOutcome(report, updater.OutcomeWouldUpdate) == 0 {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " All packages are up to date\n")
	}
	return b.String()
}

func countOutcome(report *pipeline.Report, o updater.Outcome) int {
	n := 0
	for _, r := range report.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// renderInventory formats recipes as a table.
func renderInventory(entries []pipeline.Entry) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.URL
		if e.Error != "" {
			detail = e.Error
		}
		rows = append(rows, []string{e.Name, e.Version, e.Kind, detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Version", "Source", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(entries) && entries[row].Error != "" {
				return base.Foreground(colorRed)
			}
			switch col {
			case 0:
				return base.Foreground(colorWhite)
			case 1:
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}
