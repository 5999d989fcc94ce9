// Package output prints styled terminal messages. Every command goes
// through these helpers so the CLI speaks with one voice; styling
// stays behind this surface.
package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
)

// SetVerbose enables or disables verbose output. The CLI calls this
// when --verbose is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// Success prints a completed-operation message in green.
//
// Example:
//
//	output.Success("Person.java: generated toString()")
func Success(msg string) {
	fmt.Println(successStyle.Render("🐦 " + msg))
}

// Error prints a failure that needs user attention in red.
func Error(msg string) {
	fmt.Println(errorStyle.Render("❌ " + msg))
}

// Warn prints a finding in yellow. Check mode reports through this.
//
// Example:
//
//	output.Warn("Person.java:3: class Person does not override toString()")
func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠️  " + msg))
}

// Info prints a status update or explanation in cyan.
func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented sub-item in gray. Use for per-file lines
// under a summary or for suggested next commands.
//
// Example:
//
//	output.Step("mynah generate src/main/java/Person.java")
func Step(msg string) {
	fmt.Println(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message, only when verbose mode is on.
func Verbose(msg string) {
	if verboseMode {
		fmt.Println(stepStyle.Render("🔍 " + msg))
	}
}
