package graph

// Controller tracks which node is being dragged and which is hovered. The two are
// independent: a node can be dragged while another is hovered.
//
// Every method that takes a Snapshot checks the id still exists in it, so pointer events
// that arrive after a rebuild are ignored.
type Controller struct {
	dragged string
	hovered string
}

// Tooltip is what a surface shows for the hovered node.
type Tooltip struct {
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Connections int      `json:"connections"`
}

// Dragged returns the id of the pinned node, or "" when idle.
func (c *Controller) Dragged() string {
	return c.dragged
}

func (c *Controller) Hovered() string {
	return c.hovered
}

// PointerDown starts dragging id. It reports whether the drag started.
func (c *Controller) PointerDown(s Snapshot, id string) bool {
	if s.Index(id) < 0 {
		return false
	}
	c.dragged = id
	return true
}

// PointerMove moves the dragged node to (x, y), clamped to the surface, and stops it. When
// nothing is being dragged s is returned as is.
func (c *Controller) PointerMove(s Snapshot, dim Dimensions, x, y float64) Snapshot {
	i := s.Index(c.dragged)
	if i < 0 || !finite(x, y) {
		return s
	}

	next := s.Clone()
	node := &next.Nodes[i]
	if dim.Valid() {
		x, y = dim.Clamp(x, y, node.Size)
	}
	node.X, node.Y = x, y
	node.VX, node.VY = 0, 0
	return next
}

// PointerUp releases the dragged node back to the simulation.
func (c *Controller) PointerUp() {
	c.dragged = ""
}

// PointerLeave is the pointer leaving the surface, which also ends a drag.
func (c *Controller) PointerLeave() {
	c.dragged = ""
}

// PointerEnter marks id as hovered.
func (c *Controller) PointerEnter(s Snapshot, id string) bool {
	if s.Index(id) < 0 {
		return false
	}
	c.hovered = id
	return true
}

// HoverClear is the pointer leaving the hovered node.
func (c *Controller) HoverClear() {
	c.hovered = ""
}

// Tooltip describes the hovered node.
func (c *Controller) Tooltip(s Snapshot) (Tooltip, bool) {
	n, ok := s.Node(c.hovered)
	if !ok {
		return Tooltip{}, false
	}
	return Tooltip{Label: n.Label, Type: n.Type, Connections: len(n.Connections)}, true
}

// Reconcile forgets ids which are no longer part of s.
func (c *Controller) Reconcile(s Snapshot) {
	if s.Index(c.dragged) < 0 {
		c.dragged = ""
	}
	if s.Index(c.hovered) < 0 {
		c.hovered = ""
	}
}
