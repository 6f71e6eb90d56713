// Package tui draws a live conversation graph in the terminal. Nodes can be dragged with
// the mouse, and hovered with the mouse or keyboard.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
)

// Each terminal cell stands for this many canvas pixels.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// Lines not used by the graph: header, tooltip, legend, help.
	chromeLines = 4
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	linkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	brightLink  = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	plainStyle  = lipgloss.NewStyle()

	// Terminal stand ins for the node colour tokens.
	nodeStyles = map[string]lipgloss.Style{
		graph.ColorPrimary:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		graph.ColorSecondary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		graph.ColorCompany:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
	}
)

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	engine   *engine.Engine
	interval time.Duration
	entities []graph.Entity
	title    string

	keys keyMap
	help help.Model

	width, height int
	frame         engine.Frame
}

// New creates a model for the graph. The canvas is sized from the terminal, so any
// dimensions in opts are ignored.
func New(entities []graph.Entity, title string, opts engine.Options) Model {
	opts.Dimensions = graph.Dimensions{}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = engine.DefaultFrameInterval
	}

	e := engine.New(entities, title, opts)
	return Model{
		engine:   e,
		interval: opts.FrameInterval,
		entities: entities,
		title:    title,
		keys:     defaultKeys(),
		help:     help.New(),
		frame:    e.Frame(),
	}
}

// Frame returns the last frame the model has seen.
func (m Model) Frame() engine.Frame {
	return m.frame
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		_ = m.engine.Resize(m.canvas())

	case tickMsg:
		m.engine.Tick()
		m.frame = m.engine.Frame()
		return m, tick(m.interval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			_ = m.engine.PointerEnter(m.nextNode())
		case key.Matches(msg, m.keys.Clear):
			_ = m.engine.HoverClear()
		case key.Matches(msg, m.keys.Release):
			_ = m.engine.PointerUp()
		case key.Matches(msg, m.keys.Reset):
			_ = m.engine.Rebuild(m.entities, m.title)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.frame = m.engine.Frame()

	case tea.MouseMsg:
		m.mouse(msg)
		m.frame = m.engine.Frame()
	}

	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) {
	x, y, inside := m.toCanvas(msg.X, msg.Y)
	if !inside {
		_ = m.engine.PointerLeave()
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if id := m.nodeAt(x, y); id != "" {
			_ = m.engine.PointerDown(id)
		}
	case tea.MouseActionRelease:
		_ = m.engine.PointerUp()
	case tea.MouseActionMotion:
		if m.frame.Dragged != "" {
			_ = m.engine.PointerMove(x, y)
		}
		switch id := m.nodeAt(x, y); {
		case id == m.frame.Hovered:
		case id == "":
			_ = m.engine.HoverClear()
		default:
			_ = m.engine.PointerEnter(id)
		}
	}
}

// canvas is the simulation surface for the current terminal size.
func (m Model) canvas() graph.Dimensions {
	cols, rows := m.grid()
	return graph.Dimensions{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight}
}

func (m Model) grid() (cols, rows int) {
	return max(m.width, 0), max(m.height-chromeLines, 0)
}

// toCanvas maps a terminal cell to the canvas point at its centre. The graph starts on
// the second line.
func (m Model) toCanvas(col, line int) (x, y float64, inside bool) {
	cols, rows := m.grid()
	row := line - 1
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	return (float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight, true
}

func (m Model) toCell(x, y float64) (col, row int) {
	return int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))
}

// nodeAt returns the id of the closest node whose circle contains (x, y), or "".
func (m Model) nodeAt(x, y float64) string {
	best, bestDist := "", math.Inf(1)
	for _, n := range m.frame.Snapshot.Nodes {
		d := math.Hypot(n.X-x, n.Y-y)
		if d <= n.Size && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best
}

// nextNode returns the node after the hovered one, wrapping around.
func (m Model) nextNode() string {
	nodes := m.frame.Snapshot.Nodes
	if len(nodes) == 0 {
		return ""
	}
	i := m.frame.Snapshot.Index(m.frame.Hovered)
	return nodes[(i+1)%len(nodes)].ID
}

func (m Model) View() string {
	s := m.frame.Snapshot

	header := titleStyle.Render(s.Title) + subtleStyle.Render(fmt.Sprintf("  %d nodes  energy %.4f", len(s.Nodes), m.frame.Energy))

	lines := []string{header}
	lines = append(lines, m.drawGraph()...)
	lines = append(lines, m.tooltip(), legend(), m.help.View(m.keys))

	return strings.Join(lines, "\n")
}

func (m Model) tooltip() string {
	n, ok := m.frame.Snapshot.Node(m.frame.Hovered)
	if !ok {
		return subtleStyle.Render("hover a node for details")
	}
	return fmt.Sprintf("%s  %s  %s",
		labelStyle.Bold(true).Render(n.Label),
		subtleStyle.Render(string(n.Type)),
		nodeStyles[graph.ColorPrimary].Render(fmt.Sprintf("%d connections", len(n.Connections))),
	)
}

func legend() string {
	return strings.Join([]string{
		nodeStyles[graph.ColorPrimary].Render("●") + " People",
		nodeStyles[graph.ColorSecondary].Render("●") + " Topics",
		nodeStyles[graph.ColorCompany].Render("●") + " Companies",
	}, "   ")
}

func glyph(t graph.NodeType) rune {
	switch t.Icon() {
	case "calendar":
		return '◉'
	case "user":
		return '●'
	case "building":
		return '■'
	case "hash":
		return '#'
	default:
		return '○'
	}
}
