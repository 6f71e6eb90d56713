package graphs

import (
	"encoding/json"
	"io"

	"github.com/psidex/convgraph/internal/graph"
	. "github.com/psidex/convgraph/internal/lib"
)

// Adjacency renders each node's label mapped to the labels of the nodes it is linked to,
// as JSON. It ignores positions entirely.
type Adjacency struct{}

var _ Renderer = Adjacency{}

func NewAdjacency() Adjacency {
	return Adjacency{}
}

func (Adjacency) Extension() string {
	return "json"
}

func (a Adjacency) Render(w io.Writer, scene Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a.adjacency(scene.Snapshot))
}

func (Adjacency) adjacency(s graph.Snapshot) map[string][]string {
	labels := uniqueLabels(s)

	sets := make(map[string]Set, len(s.Nodes))
	for _, n := range s.Nodes {
		sets[labels[n.ID]] = NewSet()
	}

	for _, l := range s.Links {
		source, ok := labels[l.Source]
		if !ok {
			continue
		}
		target, ok := labels[l.Target]
		if !ok {
			continue
		}
		sets[source].Add(target)
		sets[target].Add(source)
	}

	slicedSets := make(map[string][]string, len(sets))
	for key, value := range sets {
		slicedSets[key] = value.AsSlice()
	}

	return slicedSets
}
