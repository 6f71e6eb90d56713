package vector

import "math"

type Vector []float64

func (a Vector) Add(b Vector) Vector   { return Vector{a[0] + b[0], a[1] + b[1]} }
func (a Vector) Sub(b Vector) Vector   { return Vector{a[0] - b[0], a[1] - b[1]} }
func (a Vector) Scale(s float64) Vector { return Vector{a[0] * s, a[1] * s} }
func (a Vector) Magnitude() float64    { return math.Hypot(a[0], a[1]) }
func (a Vector) X() float64            { return a[0] }
func (a Vector) Y() float64            { return a[1] }
