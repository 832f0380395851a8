package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentx-labs/metrolink/internal/doctor"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	header  lipgloss.Style
	linked  lipgloss.Style
	regular lipgloss.Style
	missing lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return palette{
		header:  lipgloss.NewStyle().Bold(true),
		linked:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		regular: lipgloss.NewStyle(),
		missing: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// tag renders a doctor status tag in its colour.
func (p palette) tag(tag string) string {
	switch tag {
	case doctor.TagOK:
		return p.ok.Render(tag)
	case doctor.TagWarn:
		return p.warn.Render(tag)
	case doctor.TagFail:
		return p.fail.Render(tag)
	case doctor.TagMiss:
		return p.missing.Render(tag)
	default:
		return p.dim.Render(tag)
	}
}

// table prints rows in padded columns. Widths are computed on the raw text
// so styling does not affect alignment.
type table struct {
	headers []string
	rows    [][]string
	styles  []lipgloss.Style
}

func (t *table) add(style lipgloss.Style, cells ...string) {
	t.rows = append(t.rows, cells)
	t.styles = append(t.styles, style)
}

func (t *table) render(w io.Writer, header lipgloss.Style) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				parts[i] = cell
				continue
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, header.Render(line(t.headers)))
	for i, row := range t.rows {
		fmt.Fprintln(w, t.styles[i].Render(line(row)))
	}
}
