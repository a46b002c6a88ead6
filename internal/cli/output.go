package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// printer writes command results in the selected format.
type printer struct {
	w      io.Writer
	format string
	color  bool
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("%w: unknown output format %q (want table, json, or yaml)", errUsage, format)
	}
	return &printer{w: w, format: format, color: isTerminal(w)}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// table holds rows for the table format.
type table struct {
	header []string
	rows   [][]string
	footer string
}

// print encodes v for json and yaml, and renders tbl for the table format.
func (p *printer) print(v any, tbl func() table) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return p.render(tbl())
	}
}

// message prints a status line. In json and yaml it is an object with a
// single "message" key.
func (p *printer) message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == formatTable {
		_, err := fmt.Fprintln(p.w, msg)
		return err
	}
	return p.print(map[string]string{"message": msg}, nil)
}

func (p *printer) render(t table) error {
	widths := make([]int, len(t.header))
	for i, h := range t.header {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		return b.String()
	}

	header := line(t.header)
	if p.color {
		header = headerStyle.Render(header)
	}
	if _, err := fmt.Fprintln(p.w, header); err != nil {
		return err
	}
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(p.w, line(row)); err != nil {
			return err
		}
	}
	if t.footer != "" {
		footer := t.footer
		if p.color {
			footer = footerStyle.Render(footer)
		}
		if _, err := fmt.Fprintln(p.w, footer); err != nil {
			return err
		}
	}
	return nil
}

// pageFooter describes which slice of the total a page shows.
func pageFooter(page types.Page, shown, total int) string {
	if shown == 0 {
		return fmt.Sprintf("0 of %d", total)
	}
	return fmt.Sprintf("%d-%d of %d", page.Skip+1, page.Skip+shown, total)
}

func missionTable(page types.Page, res types.PagedResult[types.MissionDTO]) table {
	t := table{header: []string{"ID", "NAME", "DONE", "DESCRIPTION"}}
	for _, m := range res.Items {
		t.rows = append(t.rows, []string{fmtID(m.ID), m.Name, yesNo(m.IsCompleted), m.Description})
	}
	t.footer = pageFooter(page, len(res.Items), res.TotalCount)
	return t
}

func projectTable(page types.Page, res types.PagedResult[types.ProjectDTO]) table {
	t := table{header: []string{"ID", "NAME", "MISSION", "DONE", "DESCRIPTION"}}
	for _, p := range res.Items {
		t.rows = append(t.rows, []string{fmtID(p.ID), p.Name, fmtID(p.MissionID), yesNo(p.IsCompleted), p.Description})
	}
	t.footer = pageFooter(page, len(res.Items), res.TotalCount)
	return t
}

func eligibleTable(page types.Page, res types.PagedResult[types.EligibleProjectDTO]) table {
	t := table{header: []string{"ID", "NAME", "CURRENT MISSION", "DESCRIPTION"}}
	for _, p := range res.Items {
		t.rows = append(t.rows, []string{fmtID(p.ID), p.Name, p.MissionTitle, p.Description})
	}
	t.footer = pageFooter(page, len(res.Items), res.TotalCount)
	return t
}

func taskTable(page types.Page, res types.PagedResult[types.TaskDTO]) table {
	t := table{header: []string{"ID", "NAME", "PROJECT", "PARENT", "DONE", "DESCRIPTION"}}
	for _, task := range res.Items {
		t.rows = append(t.rows, []string{
			fmtID(task.ID), task.Name, optionalID(task.ProjectID), optionalID(task.ParentTaskID),
			yesNo(task.IsCompleted), task.Description,
		})
	}
	t.footer = pageFooter(page, len(res.Items), res.TotalCount)
	return t
}

// single wraps one DTO as a one-row page so it renders like a listing
// without a footer.
func single[T any](item T, render func(types.Page, types.PagedResult[T]) table) func() table {
	return func() table {
		t := render(types.Page{}, types.PagedResult[T]{Items: []T{item}, TotalCount: 1})
		t.footer = ""
		return t
	}
}

func fmtID(n int64) string {
	return strconv.FormatInt(n, 10)
}

func optionalID(n *int64) string {
	if n == nil {
		return "-"
	}
	return fmtID(*n)
}

func yesNo(done bool) string {
	if done {
		return "yes"
	}
	return "no"
}
