package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_DragLifecycle(t *testing.T) {
	dim := Dimensions{Width: 400, Height: 320}
	s := Build(sampleEntities(3), "drag")
	var c Controller

	assert.Empty(t, c.Dragged())
	require.True(t, c.PointerDown(s, "entity-1"))
	assert.Equal(t, "entity-1", c.Dragged())

	s.Nodes[2].VX, s.Nodes[2].VY = 5, -5
	moved := c.PointerMove(s, dim, 10, 1000)
	n, _ := moved.Node("entity-1")
	assert.Equal(t, n.Size, n.X, "x clamped to the left edge")
	assert.Equal(t, dim.Height-n.Size, n.Y, "y clamped to the bottom edge")
	assert.Zero(t, n.VX)
	assert.Zero(t, n.VY)

	// The input snapshot is left alone.
	assert.Equal(t, 5.0, s.Nodes[2].VX)

	c.PointerUp()
	assert.Empty(t, c.Dragged())

	require.True(t, c.PointerDown(s, "entity-0"))
	c.PointerLeave()
	assert.Empty(t, c.Dragged())
}

func TestController_MoveWithoutDrag(t *testing.T) {
	s := Build(sampleEntities(2), "idle")
	var c Controller

	out := c.PointerMove(s, Dimensions{Width: 400, Height: 320}, 100, 100)
	assert.True(t, out.Equal(s))
}

func TestController_StaleIDs(t *testing.T) {
	dim := Dimensions{Width: 400, Height: 320}
	s := Build(sampleEntities(4), "before")
	var c Controller

	assert.False(t, c.PointerDown(s, "entity-99"))
	assert.False(t, c.PointerEnter(s, ""))
	assert.Empty(t, c.Dragged())

	require.True(t, c.PointerDown(s, "entity-3"))
	require.True(t, c.PointerEnter(s, "entity-2"))

	// The input changes mid-drag and the dragged node is gone.
	rebuilt := Build(sampleEntities(2), "after")
	out := c.PointerMove(rebuilt, dim, 10, 10)
	assert.True(t, out.Equal(rebuilt))

	c.Reconcile(rebuilt)
	assert.Empty(t, c.Dragged())
	assert.Empty(t, c.Hovered())
}

func TestController_HoverIndependentOfDrag(t *testing.T) {
	s := Build(sampleEntities(3), "hover")
	var c Controller

	require.True(t, c.PointerDown(s, "entity-0"))
	require.True(t, c.PointerEnter(s, RootID))
	assert.Equal(t, "entity-0", c.Dragged())
	assert.Equal(t, RootID, c.Hovered())

	tip, ok := c.Tooltip(s)
	require.True(t, ok)
	assert.Equal(t, Tooltip{Label: "hover", Type: NodeMeeting, Connections: 3}, tip)

	c.HoverClear()
	_, ok = c.Tooltip(s)
	assert.False(t, ok)
	assert.Equal(t, "entity-0", c.Dragged())
}

func TestSnapshot_Neighbours(t *testing.T) {
	s := Build(sampleEntities(3), "n")

	root := s.Neighbours(RootID)
	assert.Len(t, root, 3)
	assert.Contains(t, root, "entity-1")

	leaf := s.Neighbours("entity-1")
	assert.Equal(t, map[string]struct{}{RootID: {}}, leaf)

	assert.Empty(t, s.Neighbours("missing"))
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := Build(sampleEntities(2), "clone")
	c := s.Clone()
	c.Nodes[0].Connections[0] = "changed"
	c.Nodes[1].X = -1
	assert.Equal(t, "entity-0", s.Nodes[0].Connections[0])
	assert.NotEqual(t, -1.0, s.Nodes[1].X)
}
