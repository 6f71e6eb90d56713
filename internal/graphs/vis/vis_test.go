package vis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/graphs"
)

func testSnapshot() graph.Snapshot {
	return graph.Build([]graph.Entity{
		{ID: "1", Name: "Sarah Chen", Type: "person"},
		{ID: "2", Name: "Acme Corp", Type: "company"},
	}, "Q4 Review")
}

func TestVis_Network(t *testing.T) {
	s := testSnapshot()
	// A duplicate, and a reversed duplicate, of an existing link.
	s.Links = append(s.Links,
		graph.Link{Source: graph.RootID, Target: "entity-0", Strength: 0.8},
		graph.Link{Source: "entity-1", Target: graph.RootID, Strength: 0.8},
		graph.Link{Source: graph.RootID, Target: "gone", Strength: 0.8},
	)

	n := NewVis().network(s)

	assert.Equal(t, "Q4 Review", n.Title)
	require.Len(t, n.Nodes, 3)
	assert.Equal(t, 1, n.Nodes[0].ID)
	assert.Equal(t, 2, n.Nodes[1].ID)
	assert.Equal(t, 3, n.Nodes[2].ID)
	assert.Equal(t, 200.0, n.Nodes[0].X)
	assert.Equal(t, 150.0, n.Nodes[0].Y)
	assert.False(t, n.Nodes[0].Physics)
	assert.Equal(t, "Acme Corp (company), 1 connections", n.Nodes[2].Title)

	assert.Equal(t, []edge{
		{From: 1, To: 2, Width: 1.8, Color: "hsla(262, 83%, 58%, 0.4)"},
		{From: 1, To: 3, Width: 1.8, Color: "hsla(262, 83%, 58%, 0.4)"},
	}, n.Edges)
}

func TestVis_Render(t *testing.T) {
	var buf bytes.Buffer
	scene := graphs.Scene{Snapshot: testSnapshot(), Dimensions: graph.Dimensions{Width: 640, Height: 480}}
	require.NoError(t, NewVis().Render(&buf, scene))

	out := buf.String()
	assert.NotContains(t, out, "%!")
	assert.Contains(t, out, "width: 640px;")
	assert.Contains(t, out, "x: 320, y: 240")

	parsed, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var script string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
			script += n.FirstChild.Data
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(parsed)

	// The embedded network is valid JSON.
	start := strings.Index(script, "const graph = ")
	require.GreaterOrEqual(t, start, 0)
	rest := script[start+len("const graph = "):]
	end := strings.Index(rest, ";\n")
	require.Greater(t, end, 0)

	var got network
	require.NoError(t, json.Unmarshal([]byte(rest[:end]), &got))
	assert.Len(t, got.Nodes, 3)
	assert.Len(t, got.Edges, 2)
	assert.Contains(t, script, "enabled: false")
}
