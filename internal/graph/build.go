package graph

import (
	"fmt"
	"math"
)

// Reference layout the builder places nodes on, before any simulation.
const (
	layoutCenterX = 200
	layoutCenterY = 150
	layoutRadius  = 120

	rootSize    = 32
	companySize = 24
	entitySize  = 20

	linkStrength = 0.8

	DefaultTitle = "Meeting"
)

const (
	ColorPrimary   = "hsl(var(--primary))"
	ColorSecondary = "hsl(var(--secondary))"
	ColorCompany   = "hsl(188, 100%, 50%)"
)

// Build creates the canonical starting layout for a meeting: the root in the middle and
// one node per entity evenly spaced on a circle around it. Calling Build again always
// resets to this layout.
func Build(entities []Entity, title string) Snapshot {
	if title == "" {
		title = DefaultTitle
	}

	s := Snapshot{
		Title: title,
		Nodes: make([]Node, 0, len(entities)+1),
		Links: make([]Link, 0, len(entities)),
	}

	root := Node{
		ID:          RootID,
		Label:       title,
		Type:        NodeMeeting,
		X:           layoutCenterX,
		Y:           layoutCenterY,
		Connections: make([]string, 0, len(entities)),
		Size:        rootSize,
		Color:       ColorPrimary,
	}

	n := float64(len(entities))
	nodes := make([]Node, 0, len(entities))
	for i, entity := range entities {
		id := fmt.Sprintf("entity-%d", i)
		// The loop doesn't run when n is 0, so this never divides by zero.
		angle := float64(i) / n * 2 * math.Pi
		nodeType := ParseNodeType(entity.Type)

		node := Node{
			ID:          id,
			Label:       entity.Name,
			Type:        nodeType,
			X:           layoutCenterX + math.Cos(angle)*layoutRadius,
			Y:           layoutCenterY + math.Sin(angle)*layoutRadius,
			Connections: []string{RootID},
			Size:        entitySize,
			Color:       ColorSecondary,
		}
		if nodeType == NodeCompany {
			node.Size = companySize
			node.Color = ColorCompany
		}

		nodes = append(nodes, node)
		root.Connections = append(root.Connections, id)
		s.Links = append(s.Links, Link{Source: RootID, Target: id, Strength: linkStrength})
	}

	s.Nodes = append(s.Nodes, root)
	s.Nodes = append(s.Nodes, nodes...)
	return s
}
