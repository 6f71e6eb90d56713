package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psidex/convgraph/internal/graph"
)

// cell is one terminal character. style indexes the styles slice of the canvas.
type cell struct {
	r     rune
	style int
}

type canvas struct {
	cols, rows int
	cells      [][]cell
	styles     []lipgloss.Style
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, styles: []lipgloss.Style{plainStyle}}
	c.cells = make([][]cell, rows)
	for i := range c.cells {
		c.cells[i] = make([]cell, cols)
		for j := range c.cells[i] {
			c.cells[i][j] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) style(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *canvas) set(col, row int, r rune, style int) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = cell{r, style}
}

// line draws between two cells, leaving the end points alone.
func (c *canvas) line(c0, r0, c1, r1 int, r rune, style int) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	err := dc + dr

	col, row := c0, r0
	for col != c1 || row != r1 {
		if col != c0 || row != r0 {
			c.set(col, row, r, style)
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			col += sc
		}
		if e2 <= dc {
			err += dc
			row += sr
		}
	}
}

// render joins runs of cells with the same style so each run is styled once.
func (c *canvas) render() []string {
	lines := make([]string, 0, c.rows)
	for _, row := range c.cells {
		var sb strings.Builder
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].style == row[start].style {
				continue
			}
			run := make([]rune, 0, i-start)
			for _, cl := range row[start:i] {
				run = append(run, cl.r)
			}
			sb.WriteString(c.styles[row[start].style].Render(string(run)))
			start = i
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (m Model) drawGraph() []string {
	cols, rows := m.grid()
	if cols == 0 || rows == 0 {
		return nil
	}

	c := newCanvas(cols, rows)
	s := m.frame.Snapshot
	bright := highlighted(s, m.frame.Hovered)

	normalLink, strongLink, dim := c.style(linkStyle), c.style(brightLink), c.style(dimStyle)
	label := c.style(labelStyle)

	for _, l := range s.Links {
		source, ok := s.Node(l.Source)
		if !ok {
			continue
		}
		target, ok := s.Node(l.Target)
		if !ok {
			continue
		}

		style := normalLink
		if bright != nil {
			_, a := bright[l.Source]
			_, b := bright[l.Target]
			style = dim
			if a || b {
				style = strongLink
			}
		}

		c0, r0 := m.toCell(source.X, source.Y)
		c1, r1 := m.toCell(target.X, target.Y)
		c.line(c0, r0, c1, r1, '·', style)
	}

	for _, n := range s.Nodes {
		col, row := m.toCell(n.X, n.Y)
		style := label
		if isDimmed(n.ID, bright) {
			style = dim
		}
		for i, r := range []rune(n.Label) {
			c.set(col+2+i, row, r, style)
		}
	}

	for _, n := range s.Nodes {
		col, row := m.toCell(n.X, n.Y)

		st, ok := nodeStyles[n.Color]
		if !ok {
			st = plainStyle
		}
		switch {
		case n.ID == m.frame.Hovered:
			st = st.Reverse(true)
		case isDimmed(n.ID, bright):
			st = dimStyle
		}
		c.set(col, row, glyph(n.Type), c.style(st))
	}

	return c.render()
}

// highlighted returns the hovered node and its neighbours, or nil if nothing is hovered.
func highlighted(s graph.Snapshot, hovered string) map[string]struct{} {
	if _, ok := s.Node(hovered); !ok {
		return nil
	}
	set := s.Neighbours(hovered)
	set[hovered] = struct{}{}
	return set
}

func isDimmed(id string, bright map[string]struct{}) bool {
	if bright == nil {
		return false
	}
	_, ok := bright[id]
	return !ok
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
