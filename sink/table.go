package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/Bkendle1/CS562-ESQL/mf"
	"github.com/Bkendle1/CS562-ESQL/value"
)

// Table prints the result the way psql does
//
//	 cust | total
//	------+-------
//	 Sam  |    30
//	 Dan  |     5
//	(2 rows)
type Table struct {
	Color bool // colorize the title bar
}

func pad(s string, width int, right bool) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

func center(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	l := n / 2
	return strings.Repeat(" ", l) + s + strings.Repeat(" ", n-l)
}

func (self *Table) title(s string) string {
	if !self.Color {
		return s
	}
	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

func (self *Table) Write(w io.Writer, r *mf.Result) error {
	width := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		width[i] = runewidth.StringWidth(c)
	}
	for _, row := range r.Rows {
		for i, v := range row {
			if x := runewidth.StringWidth(v.String()); x > width[i] {
				width[i] = x
			}
		}
	}

	buf := &strings.Builder{}

	cells := []string{}
	bar := []string{}
	for i, c := range r.Columns {
		cells = append(cells, " "+self.title(center(c, width[i]))+" ")
		bar = append(bar, strings.Repeat("-", width[i]+2))
	}
	buf.WriteString(strings.TrimRight(strings.Join(cells, "|"), " "))
	buf.WriteString("\n")
	buf.WriteString(strings.Join(bar, "+"))
	buf.WriteString("\n")

	for _, row := range r.Rows {
		cells = cells[:0]
		for i, v := range row {
			cells = append(cells, " "+pad(v.String(), width[i], v.Ty == value.Int || v.Ty == value.Real)+" ")
		}
		buf.WriteString(strings.TrimRight(strings.Join(cells, "|"), " "))
		buf.WriteString("\n")
	}

	if len(r.Rows) == 1 {
		buf.WriteString("(1 row)\n")
	} else {
		buf.WriteString(fmt.Sprintf("(%d rows)\n", len(r.Rows)))
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
