package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
)

// Cell is one table cell. Paint, when set, colours the padded text.
type Cell struct {
	Text  string
	Paint *color.Color
}

type TableData struct {
	Headers []string
	// MaxWidths caps column widths; zero means unbounded.
	MaxWidths []int
	Rows      [][]Cell
}

// Tabler is implemented by results that have a table rendering.
type Tabler interface {
	Table() TableData
}

var headerPaint = color.New(color.Bold, color.Underline)

// WriteTable writes t with space-padded columns. Widths are measured in
// terminal cells so accented text lines up.
func WriteTable(w io.Writer, t TableData) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], ansi.StringWidth(c.Text))
			}
		}
	}
	for i := range widths {
		if i < len(t.MaxWidths) && t.MaxWidths[i] > 0 {
			widths[i] = min(widths[i], t.MaxWidths[i])
		}
	}

	var sb strings.Builder
	for i, h := range t.Headers {
		writeCell(&sb, Cell{Text: h, Paint: headerPaint}, widths[i], i == len(t.Headers)-1)
	}
	sb.WriteByte('\n')
	for _, row := range t.Rows {
		for i := range widths {
			var c Cell
			if i < len(row) {
				c = row[i]
			}
			writeCell(&sb, c, widths[i], i == len(widths)-1)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCell(sb *strings.Builder, c Cell, width int, last bool) {
	text := c.Text
	if ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	if !last {
		text += strings.Repeat(" ", width-ansi.StringWidth(text))
	}
	if c.Paint != nil {
		text = c.Paint.Sprint(text)
	}
	sb.WriteString(text)
	if !last {
		sb.WriteString("  ")
	}
}
