package graphs

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ECharts renders a go-echarts HTML page. Nodes are drawn at the simulated positions, the
// chart's own force layout is off.
type ECharts struct{}

var _ Renderer = ECharts{}

func NewECharts() ECharts {
	return ECharts{}
}

func (ECharts) Extension() string {
	return "html"
}

func (e ECharts) Render(w io.Writer, scene Scene) error {
	nodes, links := e.nodesAndLinks(scene)

	page := components.NewPage()
	page.AddCharts(graphBase(scene, nodes, links))

	return page.Render(w)
}

func (ECharts) nodesAndLinks(scene Scene) ([]opts.GraphNode, []opts.GraphLink) {
	s := scene.Snapshot
	labels := uniqueLabels(s)
	bright := highlighted(s, scene.Hovered)

	nodes := make([]opts.GraphNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		style := &opts.ItemStyle{Color: Color(n)}
		if _, ok := bright[n.ID]; bright != nil && !ok {
			style.Color = dimmedColor
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       labels[n.ID],
			X:          float32(n.X),
			Y:          float32(n.Y),
			SymbolSize: n.Size * 2,
			ItemStyle:  style,
		})
	}

	links := make([]opts.GraphLink, 0, len(s.Links))
	for _, l := range s.Links {
		source, ok := labels[l.Source]
		if !ok {
			continue
		}
		target, ok := labels[l.Target]
		if !ok {
			continue
		}
		links = append(links, opts.GraphLink{
			Source: source,
			Target: target,
			Value:  float32(l.Strength),
		})
	}

	return nodes, links
}

func graphBase(scene Scene, nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	width, height := "100vw", "100vh"
	if scene.Dimensions.Valid() {
		width = fmt.Sprintf("%.0fpx", scene.Dimensions.Width)
		height = fmt.Sprintf("%.0fpx", scene.Dimensions.Height)
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: scene.Snapshot.Title,
			Height:    height,
			Width:     width,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: scene.Snapshot.Title,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"conversation",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "none",
				Draggable: opts.Bool(false),
				Roam:      opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "bottom",
		}),
	)
	return graph
}
