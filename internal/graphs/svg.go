package graphs

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/psidex/convgraph/internal/graph"
)

const (
	defaultSVGWidth  = 400
	defaultSVGHeight = 320
	tooltipWidth     = 140
	tooltipHeight    = 60
)

// SVG draws the graph the way the dashboard card does: links as lines, nodes as rings
// with an icon glyph, a tooltip for the hovered node and a legend.
type SVG struct{}

var _ Renderer = SVG{}

func NewSVG() SVG {
	return SVG{}
}

func (SVG) Extension() string {
	return "svg"
}

func (r SVG) Render(w io.Writer, scene Scene) error {
	width, height := defaultSVGWidth, defaultSVGHeight
	if scene.Dimensions.Valid() {
		width, height = px(scene.Dimensions.Width), px(scene.Dimensions.Height)
	}

	s := scene.Snapshot
	bright := highlighted(s, scene.Hovered)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(s.Title)

	canvas.Def()
	canvas.Filter("glow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "blur"}, 3, 3)
	canvas.FeMerge([]string{"blur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, "fill:hsl(222, 47%, 11%)")

	canvas.Gid("links")
	for _, l := range s.Links {
		source, ok := s.Node(l.Source)
		if !ok {
			continue
		}
		target, ok := s.Node(l.Target)
		if !ok {
			continue
		}
		canvas.Line(px(source.X), px(source.Y), px(target.X), px(target.Y), linkStyle(l, bright))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range s.Nodes {
		r.drawNode(canvas, n, n.ID == scene.Hovered, dimmed(n.ID, bright))
	}
	canvas.Gend()

	if n, ok := s.Node(scene.Hovered); ok {
		drawTooltip(canvas, n, width, height)
	}

	drawLegend(canvas, height)

	canvas.End()
	return nil
}

func (SVG) drawNode(canvas *svg.SVG, n graph.Node, hovered, dim bool) {
	x, y, size := px(n.X), px(n.Y), px(n.Size)
	color := Color(n)

	opacity := 1.0
	if dim {
		opacity = 0.3
	}

	canvas.Group(fmt.Sprintf(`id="%s"`, n.ID), fmt.Sprintf(`opacity="%.1f"`, opacity))

	ring, ringWidth, ringOpacity, filter := size+4, 1, 0.2, ""
	if hovered {
		ring, ringWidth, ringOpacity, filter = size+8, 2, 0.6, ";filter:url(#glow)"
	}
	canvas.Circle(x, y, ring, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d;stroke-opacity:%.1f%s", color, ringWidth, ringOpacity, filter))
	canvas.Circle(x, y, size, fmt.Sprintf("fill:hsl(222, 47%%, 15%%);stroke:%s;stroke-width:2%s", color, filter))
	canvas.Text(x, y, iconGlyph(n.Type), fmt.Sprintf("fill:%s;font-size:%dpx;font-family:system-ui,sans-serif;text-anchor:middle;dominant-baseline:central", color, size/2+2))
	canvas.Text(x, y+size+14, n.Label, "fill:hsl(210, 40%, 96%);font-size:11px;font-family:system-ui,sans-serif;text-anchor:middle")

	canvas.Gend()
}

func drawTooltip(canvas *svg.SVG, n graph.Node, width, height int) {
	x := min(px(n.X)+20, width-tooltipWidth)
	y := min(px(n.Y)-10, height-tooltipHeight)

	canvas.Gid("tooltip")
	canvas.Roundrect(x, y, tooltipWidth, tooltipHeight, 8, 8, "fill:hsl(222, 47%, 15%);stroke:hsl(217, 33%, 25%)")
	canvas.Text(x+12, y+20, n.Label, "fill:hsl(210, 40%, 96%);font-size:13px;font-family:system-ui,sans-serif;font-weight:500")
	canvas.Text(x+12, y+36, string(n.Type), "fill:hsl(215, 20%, 65%);font-size:11px;font-family:system-ui,sans-serif")
	canvas.Text(x+12, y+51, fmt.Sprintf("%d connections", len(n.Connections)), fmt.Sprintf("fill:%s;font-size:11px;font-family:system-ui,sans-serif", themeColors[graph.ColorPrimary]))
	canvas.Gend()
}

func drawLegend(canvas *svg.SVG, height int) {
	canvas.Gid("legend")
	x := 10
	for _, entry := range Legend() {
		canvas.Circle(x+4, height-12, 4, "fill:"+entry.Color)
		canvas.Text(x+12, height-8, entry.Label, "fill:hsl(215, 20%, 65%);font-size:11px;font-family:system-ui,sans-serif")
		x += 20 + 7*len(entry.Label)
	}
	canvas.Gend()
}

func linkStyle(l graph.Link, bright map[string]struct{}) string {
	if bright == nil {
		return "stroke:hsl(262, 83%, 58%);stroke-width:1;stroke-opacity:0.4"
	}
	_, a := bright[l.Source]
	_, b := bright[l.Target]
	if a || b {
		return "stroke:hsl(262, 83%, 58%);stroke-width:2;stroke-opacity:0.8"
	}
	return "stroke:hsl(262, 83%, 58%);stroke-width:1;stroke-opacity:0.1"
}

func dimmed(id string, bright map[string]struct{}) bool {
	if bright == nil {
		return false
	}
	_, ok := bright[id]
	return !ok
}

// iconGlyph stands in for the dashboard's icon set.
func iconGlyph(t graph.NodeType) string {
	switch t.Icon() {
	case "user":
		return "☺"
	case "building":
		return "⌂"
	case "hash":
		return "#"
	case "calendar":
		return "▦"
	default:
		return "●"
	}
}

func px(v float64) int {
	return int(math.Round(v))
}
