package graphology

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/graphs"
	. "github.com/psidex/convgraph/internal/lib"
)

// Graphology renders the graph as a serialised graphology graph in JSON, which sigma.js
// and friends can import directly.
type Graphology struct{}

var _ graphs.Renderer = Graphology{}

func NewGraphology() Graphology {
	return Graphology{}
}

func (Graphology) Extension() string {
	return "json"
}

func (g Graphology) Render(w io.Writer, scene graphs.Scene) error {
	return json.NewEncoder(w).Encode(g.Serialize(scene.Snapshot))
}

// Serialize converts s, keeping node ids as keys. Duplicate links in either direction are
// collapsed into one undirected edge.
func (Graphology) Serialize(s graph.Snapshot) SerializedGraph {
	serialized := SerializedGraph{
		Attributes: GraphAttributes{Name: s.Title},
		Options:    Options{Type: "undirected", Multi: false},
		Nodes:      make([]Node, 0, len(s.Nodes)),
		Edges:      make([]Edge, 0, len(s.Links)),
	}

	for _, n := range s.Nodes {
		serialized.Nodes = append(serialized.Nodes, Node{
			Key: n.ID,
			Attributes: NodeAttributes{
				X: n.X, Y: n.Y, Size: n.Size,
				Label: n.Label, Color: graphs.Color(n),
				Kind: string(n.Type), Icon: n.Type.Icon(),
				Connections: len(n.Connections),
			},
		})
	}

	seenEdges := NewSet()
	for _, l := range s.Links {
		if _, ok := s.Node(l.Source); !ok {
			continue
		}
		if _, ok := s.Node(l.Target); !ok {
			continue
		}

		edgeStr := l.Source + "\t" + l.Target
		inverseEdgeStr := l.Target + "\t" + l.Source
		if seenEdges.Contains(inverseEdgeStr) || !seenEdges.AddNew(edgeStr) {
			continue
		}

		serialized.Edges = append(serialized.Edges, Edge{
			Key:    strconv.Itoa(len(serialized.Edges) + 1),
			Source: l.Source,
			Target: l.Target,
			Attributes: EdgeAttributes{
				Size:   1 + l.Strength,
				Weight: l.Strength,
			},
		})
	}

	return serialized
}
