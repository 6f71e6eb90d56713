// Package graphology streams engine frames to a graphology based frontend over a
// websocket.
package graphology

import (
	"strconv"
	"sync"

	"github.com/psidex/convgraph/internal/engine"
	. "github.com/psidex/convgraph/internal/lib"
)

// JSONWriter is satisfied by lib.ThreadSafeWebSocket.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

// Stream sends the frontend each node and edge once, then only positions on every
// frame. When the engine rebuilds its graph the frontend is told to clear and the
// structure is sent again.
type Stream struct {
	mu  sync.Mutex
	ws  JSONWriter
	gen uint64
	// Keep track of nodes and edges so we know what's been sent.
	seenNodes Set
	seenEdges Set
	edgeCount int
	started   bool
}

func NewStream(ws JSONWriter) *Stream {
	return &Stream{
		ws:        ws,
		seenNodes: NewSet(),
		seenEdges: NewSet(),
	}
}

// Send writes everything the frontend needs to draw f. It stops at the first failed
// write.
func (g *Stream) Send(f engine.Frame) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started || f.Generation != g.gen {
		g.started = true
		g.gen = f.Generation
		g.seenNodes.Clear()
		g.seenEdges.Clear()
		g.edgeCount = 0

		if err := g.ws.WriteJSON(message{Type: "clear", Data: clearData{Title: f.Snapshot.Title}}); err != nil {
			return err
		}
	}

	positions := make([]position, 0, len(f.Snapshot.Nodes))
	for _, n := range f.Snapshot.Nodes {
		if g.seenNodes.AddNew(n.ID) {
			msg := node{
				Key: n.ID,
				Attributes: nodeAttributes{
					Label: n.Label,
					Kind:  string(n.Type),
					Icon:  n.Type.Icon(),
					Size:  n.Size,
					Color: n.Color,
				},
			}
			if err := g.ws.WriteJSON(msg.toMessage()); err != nil {
				return err
			}
		}
		positions = append(positions, position{Key: n.ID, X: n.X, Y: n.Y})
	}

	for _, l := range f.Snapshot.Links {
		// Use tab as a separator as it can't appear in node ids.
		edgeStr := l.Source + "\t" + l.Target
		inverseEdgeStr := l.Target + "\t" + l.Source

		if g.seenEdges.Contains(inverseEdgeStr) || !g.seenEdges.AddNew(edgeStr) {
			continue
		}
		g.edgeCount++

		msg := edge{strconv.Itoa(g.edgeCount), l.Source, l.Target, l.Strength}
		if err := g.ws.WriteJSON(msg.toMessage()); err != nil {
			return err
		}
	}

	msg := frame{
		Seq:       f.Seq,
		Energy:    f.Energy,
		Dragged:   f.Dragged,
		Hovered:   f.Hovered,
		Positions: positions,
	}
	return g.ws.WriteJSON(msg.toMessage())
}
