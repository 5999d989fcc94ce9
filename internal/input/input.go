// Package input reads interactive answers from the terminal. Commands
// fall back to these plain prompts when the full-screen menu cannot
// run.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Reader asks questions on out and reads answers from in.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a reader over in that writes its prompts to out.
func New(in io.Reader, out io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(in), out: out}
}

// Default prompts on stdout and reads from stdin.
func Default() *Reader {
	return New(os.Stdin, os.Stdout)
}

// Prompt asks for text input. Pressing Enter without typing returns
// fallback, as does a closed input stream.
//
// Example:
//
//	name := r.Prompt("Template", "default")
//	// Displays: Template (default): _
func (r *Reader) Prompt(message, fallback string) string {
	if fallback != "" {
		fmt.Fprint(r.out, promptStyle.Render(message)+" "+hintStyle.Render("("+fallback+")")+": ")
	} else {
		fmt.Fprint(r.out, promptStyle.Render(message)+": ")
	}

	text, err := r.in.ReadString('\n')
	if err != nil && text == "" {
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

// Confirm asks a yes/no question. Enter returns defaultYes; only y or
// yes read as yes.
//
// Example:
//
//	if r.Confirm("Replace toString() in Person?", true) {
//	    // proceed
//	}
//	// Displays: Replace toString() in Person? [Y/n]: _
func (r *Reader) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(r.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	text, err := r.in.ReadString('\n')
	if err != nil && text == "" {
		return defaultYes
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return defaultYes
	}
	return text == "y" || text == "yes"
}
