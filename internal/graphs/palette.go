package graphs

import (
	"fmt"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

// The graph package colours nodes with CSS theme variables, which only resolve inside the
// web app. Standalone outputs use these concrete colours instead.
var themeColors = map[string]string{
	graph.ColorPrimary:   "hsl(262, 83%, 58%)",
	graph.ColorSecondary: "hsl(217, 91%, 60%)",
	graph.ColorCompany:   graph.ColorCompany,
}

const (
	defaultColor = "hsl(215, 16%, 47%)"
	dimmedColor  = "hsla(215, 16%, 47%, 0.3)"
)

// Color returns a colour usable outside the web app for n.
func Color(n graph.Node) string {
	if c, ok := themeColors[n.Color]; ok {
		return c
	}
	if n.Color != "" {
		return n.Color
	}
	return defaultColor
}

// LegendEntry is one row of the legend drawn by renderers that have one.
type LegendEntry struct {
	Label string
	Color string
}

// Legend returns the colour key, matching the colours Color picks.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Label: "People", Color: themeColors[graph.ColorPrimary]},
		{Label: "Topics", Color: themeColors[graph.ColorSecondary]},
		{Label: "Companies", Color: graph.ColorCompany},
	}
}

// uniqueLabels returns a display name per node id, suffixing duplicates so formats which
// key nodes by name still see each node once.
func uniqueLabels(s graph.Snapshot) map[string]string {
	out := make(map[string]string, len(s.Nodes))
	used := lib.NewSet()
	for _, n := range s.Nodes {
		base := n.Label
		if base == "" {
			base = n.ID
		}
		label := base
		for i := 2; !used.AddNew(label); i++ {
			label = fmt.Sprintf("%s (%d)", base, i)
		}
		out[n.ID] = label
	}
	return out
}

// highlighted returns the set of node ids which stay bright while hovered is hovered, or
// nil when nothing is hovered.
func highlighted(s graph.Snapshot, hovered string) map[string]struct{} {
	if _, ok := s.Node(hovered); !ok {
		return nil
	}
	set := s.Neighbours(hovered)
	set[hovered] = struct{}{}
	return set
}
