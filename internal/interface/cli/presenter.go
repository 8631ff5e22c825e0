// Package cli is the terminal interface: cobra commands over the
// application layer plus plain-text rendering of grids and indexes.
package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
)

const emptyCell = "-"

// Presenter renders schedule data as plain text tables.
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a Presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// GroupList prints one line per cached group.
func (p *Presenter) GroupList(groups []schedule.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(p.out, "no schedules cached; run `horarios sync` first")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(p.out, "%-12s %s (%d sessions)\n", g.ID, g.DisplayName, len(g.Sessions))
	}
}

// Grid prints the full day×hour table for one group. Every cell is
// printed, occupied or not, so the table shape never depends on the data.
func (p *Presenter) Grid(group schedule.Group, grid *schedule.Grid) {
	days := grid.Days()
	hours := grid.Hours()

	width := cellWidth(emptyCell)
	for _, h := range hours {
		for _, d := range days {
			if cell := grid.At(h, d); cell != nil {
				width = max(width, cellWidth(p.cellText(cell)))
			}
		}
	}
	for _, d := range days {
		width = max(width, cellWidth(d))
	}

	fmt.Fprintf(p.out, "Horario %s\n\n", group.DisplayName)

	header := make([]string, 0, len(days)+1)
	header = append(header, pad("Hora", 5))
	for _, d := range days {
		header = append(header, pad(d, width))
	}
	fmt.Fprintln(p.out, strings.Join(header, " | "))
	fmt.Fprintln(p.out, strings.Repeat("-", 5+len(days)*(width+3)))

	for _, h := range hours {
		row := make([]string, 0, len(days)+1)
		row = append(row, pad(fmt.Sprintf("%d:00", h), 5))
		for _, d := range days {
			text := emptyCell
			if cell := grid.At(h, d); cell != nil {
				text = p.cellText(cell)
			}
			row = append(row, pad(text, width))
		}
		fmt.Fprintln(p.out, strings.Join(row, " | "))
	}
}

// Professors prints one card per professor, sessions in encounter order.
func (p *Presenter) Professors(idx *schedule.ProfessorIndex) {
	if idx.Len() == 0 {
		fmt.Fprintln(p.out, "no professors found in the cached schedules")
		return
	}
	for _, name := range idx.Professors() {
		fmt.Fprintf(p.out, "%s\n", name)
		for _, e := range idx.Entries(name) {
			room := e.Session.Room
			if room == "" {
				room = "?"
			}
			fmt.Fprintf(p.out, "  %-6s %-24s grupo %-10s aula %s\n",
				e.Session.SlotToken, e.Session.Subject, e.GroupName, room)
		}
		fmt.Fprintln(p.out)
	}
}

func (p *Presenter) cellText(cell *schedule.ClassSession) string {
	text := cell.Subject
	if cell.Professor != "" {
		text += " / " + cell.Professor
	}
	if cell.Room != "" {
		text += " (" + cell.Room + ")"
	}
	return text
}

// cellWidth measures in runes so accented names pad the same as plain ASCII.
func cellWidth(s string) int {
	return utf8.RuneCountInString(s)
}

func pad(s string, width int) string {
	if n := cellWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
