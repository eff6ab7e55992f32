// Package output provides styled terminal output for the heron CLI.
//
// Functions use lipgloss for styling but abstract away the details from callers.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output. Passing nil restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Success prints a success message with ✅ emoji and green color.
//
// Example:
//
//	output.Success("Trace complete")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✅ "+msg))
}

// Error prints an error message with ❌ emoji and red color.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Warn prints a warning with ⚠️ emoji in amber.
// Use this for degraded results such as router_only traces.
func Warn(msg string) {
	fmt.Fprintln(out, warnStyle.Render("⚠️  "+msg))
}

// Info prints an informational message with ℹ️ emoji and cyan color.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Heading prints a bold, underlined section title.
func Heading(msg string) {
	fmt.Fprintln(out, headingStyle.Render(msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("src/features/records/RecordsPage.tsx")
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Plain prints msg without styling.
func Plain(msg string) {
	fmt.Fprintln(out, msg)
}

// Verbose prints a debug message with 🔍 emoji only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("🔍 "+msg))
	}
}
