package graph

import "math"

// RootID is the id of the meeting node every entity links to.
const RootID = "meeting-root"

type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	VX          float64  `json:"vx"`
	VY          float64  `json:"vy"`
	Connections []string `json:"connections"`
	Size        float64  `json:"size"`
	Color       string   `json:"color"`
}

type Link struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

// Snapshot is the state of a graph at one point in time. Operations on a Snapshot return a
// new Snapshot and leave the receiver untouched, so a renderer can hold on to one while the
// next is being computed.
type Snapshot struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Title: s.Title,
		Nodes: make([]Node, len(s.Nodes)),
		Links: make([]Link, len(s.Links)),
	}
	copy(c.Links, s.Links)
	for i, n := range s.Nodes {
		n.Connections = append([]string(nil), n.Connections...)
		c.Nodes[i] = n
	}
	return c
}

// Index returns the position of the node with the given id, or -1.
func (s Snapshot) Index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node returns the node with the given id.
func (s Snapshot) Node(id string) (Node, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Nodes[i], true
	}
	return Node{}, false
}

// Neighbours returns the set of ids adjacent to id, used to highlight a hovered node's
// links and dim everything else.
func (s Snapshot) Neighbours(id string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, l := range s.Links {
		switch id {
		case l.Source:
			out[l.Target] = struct{}{}
		case l.Target:
			out[l.Source] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two snapshots hold the same nodes and links in the same order.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Title != o.Title || len(s.Nodes) != len(o.Nodes) || len(s.Links) != len(o.Links) {
		return false
	}
	for i := range s.Links {
		if s.Links[i] != o.Links[i] {
			return false
		}
	}
	for i := range s.Nodes {
		a, b := s.Nodes[i], o.Nodes[i]
		if a.ID != b.ID || a.Label != b.Label || a.Type != b.Type || a.Size != b.Size ||
			a.Color != b.Color || a.X != b.X || a.Y != b.Y || a.VX != b.VX || a.VY != b.VY ||
			len(a.Connections) != len(b.Connections) {
			return false
		}
		for j := range a.Connections {
			if a.Connections[j] != b.Connections[j] {
				return false
			}
		}
	}
	return true
}

// Dimensions is the size of the surface the graph is drawn on, in pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the dimensions can be simulated against.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 && !math.IsInf(d.Width, 0) && !math.IsInf(d.Height, 0)
}

func (d Dimensions) Center() (x, y float64) {
	return d.Width / 2, d.Height / 2
}

// Clamp keeps a node of the given size inside the surface.
func (d Dimensions) Clamp(x, y, size float64) (float64, float64) {
	return clamp(x, size, d.Width-size), clamp(y, size, d.Height-size)
}

// clamp follows max(lo, min(hi, v)), so lo wins when the surface is smaller than the node.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
