// Package diff renders colored unified diffs between two revisions of
// one source file. Generation edits files in place, so a diff always
// compares a file against its own regenerated form.
package diff

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Options configures rendering. The zero value gets three context
// lines, four-column tabs, and no line numbers.
type Options struct {
	Context     int
	TabWidth    int
	LineNumbers bool
}

func (o *Options) withDefaults() Options {
	out := Options{Context: 3, TabWidth: 4}
	if o != nil {
		if o.Context > 0 {
			out.Context = o.Context
		}
		if o.TabWidth > 0 {
			out.TabWidth = o.TabWidth
		}
		out.LineNumbers = o.LineNumbers
	}
	return out
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	delStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	numStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

// Unified renders the unified diff of one file's old and new bytes.
// Identical revisions render as the empty string.
func Unified(path string, old, newer []byte, opts *Options) string {
	o := opts.withDefaults()

	hunks := group(editScript(toLines(old), toLines(newer)), o.Context)
	if len(hunks) == 0 {
		return ""
	}

	width := terminalWidth()
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("--- "+path) + "\n")
	sb.WriteString(headerStyle.Render("+++ "+path) + "\n")
	for _, h := range hunks {
		writeHunk(&sb, h, o, width)
	}
	return sb.String()
}

type op byte

const (
	opSame op = iota
	opAdd
	opDel
)

// line is one row of the edit script with its position in each
// revision; zero marks a side the line does not exist on.
type line struct {
	oldNum int
	newNum int
	text   string
	op     op
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []line
}

// editScript computes the shortest edit script with the Myers O(ND)
// algorithm, snapshotting the k-vector once per depth for the
// backward walk.
func editScript(a, b []string) []line {
	n, m := len(a), len(b)
	bound := n + m
	if bound == 0 {
		return nil
	}

	// k is indexed as k+bound so it can run over [-bound, bound]
	v := make([]int, 2*bound+2)
	var trace [][]int

	depth := 0
search:
	for ; depth <= bound; depth++ {
		snap := make([]int, len(v))
		copy(snap, v)
		trace = append(trace, snap)

		for k := -depth; k <= depth; k += 2 {
			var x int
			if k == -depth || (k != depth && v[k-1+bound] < v[k+1+bound]) {
				x = v[k+1+bound]
			} else {
				x = v[k-1+bound] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[k+bound] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var rev []line
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		snap := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && snap[k-1+bound] < snap[k+1+bound]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := snap[prevK+bound]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, line{oldNum: x + 1, newNum: y + 1, text: a[x], op: opSame})
		}
		if d > 0 {
			if x == prevX {
				y--
				rev = append(rev, line{newNum: y + 1, text: b[y], op: opAdd})
			} else {
				x--
				rev = append(rev, line{oldNum: x + 1, text: a[x], op: opDel})
			}
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// group batches the script's changed rows into hunks, folding ranges
// whose context windows would touch into one.
func group(script []line, context int) []hunk {
	var ranges [][2]int
	for i := 0; i < len(script); i++ {
		if script[i].op == opSame {
			continue
		}
		j := i
		for j+1 < len(script) && script[j+1].op != opSame {
			j++
		}
		ranges = append(ranges, [2]int{i, j})
		i = j
	}
	if len(ranges) == 0 {
		return nil
	}

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r[0]-last[1] <= 2*context {
			last[1] = r[1]
			continue
		}
		merged = append(merged, r)
	}

	hunks := make([]hunk, 0, len(merged))
	for _, r := range merged {
		start := max(r[0]-context, 0)
		end := min(r[1]+context, len(script)-1)
		h := hunk{lines: script[start : end+1]}
		for _, ln := range h.lines {
			if ln.oldNum > 0 {
				if h.oldStart == 0 {
					h.oldStart = ln.oldNum
				}
				h.oldCount++
			}
			if ln.newNum > 0 {
				if h.newStart == 0 {
					h.newStart = ln.newNum
				}
				h.newCount++
			}
		}
		hunks = append(hunks, h)
	}
	return hunks
}

func writeHunk(sb *strings.Builder, h hunk, o Options, width int) {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)
	sb.WriteString(hunkStyle.Render(header) + "\n")

	for _, ln := range h.lines {
		text := clip(expandTabs(ln.text, o.TabWidth), width-10)

		var row string
		switch ln.op {
		case opAdd:
			row = addStyle.Render("+" + text)
		case opDel:
			row = delStyle.Render("-" + text)
		default:
			row = " " + text
		}

		if o.LineNumbers {
			num := "    "
			if ln.oldNum > 0 {
				num = fmt.Sprintf("%4d", ln.oldNum)
			}
			row = numStyle.Render(num) + " " + row
		}
		sb.WriteString(row + "\n")
	}
}

// toLines splits source into lines without a trailing empty entry for
// the final newline.
func toLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := strings.Split(string(src), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

func clip(s string, width int) string {
	if width <= 0 {
		width = 80
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width < 3 {
		return strings.Repeat(".", width)
	}
	return string([]rune(s)[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
