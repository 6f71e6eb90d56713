package vis

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/graphs"
	. "github.com/psidex/convgraph/internal/lib"
)

const (
	defaultWidth  = 400
	defaultHeight = 320
)

// Vis renders a HTML page which draws the graph with vis.js at the simulated positions.
type Vis struct{}

var _ graphs.Renderer = Vis{}

func NewVis() Vis {
	return Vis{}
}

func (Vis) Extension() string {
	return "html"
}

func (v Vis) Render(w io.Writer, scene graphs.Scene) error {
	width, height := defaultWidth, defaultHeight
	if scene.Dimensions.Valid() {
		width, height = int(scene.Dimensions.Width), int(scene.Dimensions.Height)
	}

	marshalled, err := json.Marshal(v.network(scene.Snapshot))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, pageTemplate, width, height, marshalled, width/2, height/2)
	return err
}

func (Vis) network(s graph.Snapshot) network {
	// vis.js wants numeric ids.
	hasher := NewStrHasher()
	seenEdges := NewSet()

	out := network{
		Title: s.Title,
		Nodes: make([]node, 0, len(s.Nodes)),
		Edges: make([]edge, 0, len(s.Links)),
	}

	for _, n := range s.Nodes {
		out.Nodes = append(out.Nodes, node{
			ID:    hasher.Hash(n.ID),
			Label: n.Label,
			Title: fmt.Sprintf("%s (%s), %d connections", n.Label, n.Type, len(n.Connections)),
			X:     n.X,
			Y:     n.Y,
			Size:  n.Size,
			Color: graphs.Color(n),
			Shape: "dot",
		})
	}

	for _, l := range s.Links {
		if _, ok := s.Node(l.Source); !ok {
			continue
		}
		if _, ok := s.Node(l.Target); !ok {
			continue
		}

		// Tab can't appear in node ids, so it's a safe separator. Links are undirected.
		edgeStr := l.Source + "\t" + l.Target
		inverseEdgeStr := l.Target + "\t" + l.Source
		if seenEdges.Contains(inverseEdgeStr) || !seenEdges.AddNew(edgeStr) {
			continue
		}

		out.Edges = append(out.Edges, edge{
			From:  hasher.Hash(l.Source),
			To:    hasher.Hash(l.Target),
			Width: 1 + l.Strength,
			Color: "hsla(262, 83%, 58%, 0.4)",
		})
	}

	return out
}
