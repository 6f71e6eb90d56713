package graph

import (
	"math"

	"github.com/quartercastle/vector"
)

// Params are the constants of the force model.
type Params struct {
	// Gravity pulls every node weakly towards the centre of the surface.
	Gravity float64 `json:"gravity"`
	// Repulsion is the inverse-square push between every pair of nodes.
	Repulsion float64 `json:"repulsion"`
	// Attraction is the spring gain along links, multiplied by the link strength.
	Attraction float64 `json:"attraction"`
	// Damping multiplies velocity every step.
	Damping float64 `json:"damping"`
	// MinDistance floors the distance used for repulsion.
	MinDistance float64 `json:"minDistance"`
}

func DefaultParams() Params {
	return Params{
		Gravity:     0.001,
		Repulsion:   500,
		Attraction:  0.01,
		Damping:     0.8,
		MinDistance: 1,
	}
}

// Step advances the simulation by one frame and returns the new snapshot. The node with
// the id dragged (if any) is pinned: it is copied over untouched. Forces are computed from
// the positions in s, so the order of nodes doesn't change the result.
//
// If dim is not Valid, s is returned unchanged.
func Step(s Snapshot, p Params, dim Dimensions, dragged string) Snapshot {
	next := s.Clone()
	if !dim.Valid() {
		return next
	}

	cx, cy := dim.Center()
	center := vector.Vector{cx, cy}

	positions := make([]vector.Vector, len(s.Nodes))
	index := make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		positions[i] = vector.Vector{n.X, n.Y}
		index[n.ID] = i
	}

	for i := range next.Nodes {
		node := &next.Nodes[i]
		if node.ID == dragged {
			continue
		}

		force := center.Sub(positions[i]).Scale(p.Gravity)

		for j := range positions {
			if i == j {
				continue
			}
			force = force.Add(repulsion(positions[i], positions[j], i < j, p))
		}

		for _, l := range s.Links {
			var other string
			switch node.ID {
			case l.Source:
				other = l.Target
			case l.Target:
				other = l.Source
			default:
				continue
			}
			j, ok := index[other]
			if !ok {
				continue
			}
			force = force.Add(positions[j].Sub(positions[i]).Scale(p.Attraction * l.Strength))
		}

		velocity := vector.Vector{node.VX, node.VY}.Add(force).Scale(p.Damping)
		if !finite(velocity.X(), velocity.Y()) {
			velocity = vector.Vector{0, 0}
		}
		node.VX, node.VY = velocity.X(), velocity.Y()

		x, y := dim.Clamp(node.X+node.VX, node.Y+node.VY, node.Size)
		if !finite(x, y) {
			x, y = dim.Clamp(cx, cy, node.Size)
		}
		node.X, node.Y = x, y
	}

	return next
}

// repulsion is the force on a node at a from a node at b. Nodes sitting exactly on top of
// each other are pushed apart along the x axis, in opposite directions decided by their
// order, so they always separate.
func repulsion(a, b vector.Vector, first bool, p Params) vector.Vector {
	delta := a.Sub(b)
	dist := delta.Magnitude()
	if dist == 0 {
		if first {
			delta = vector.Vector{1, 0}
		} else {
			delta = vector.Vector{-1, 0}
		}
	}
	dist = math.Max(dist, p.MinDistance)
	if dist <= 0 {
		dist = 1
	}
	magnitude := p.Repulsion / (dist * dist)
	return delta.Scale(magnitude / dist)
}

// KineticEnergy returns the sum of squared velocities, which falls towards zero as the
// layout settles.
func KineticEnergy(s Snapshot) float64 {
	var sum float64
	for _, n := range s.Nodes {
		sum += n.VX*n.VX + n.VY*n.VY
	}
	return sum
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
