package webserver

import (
	"github.com/psidex/convgraph/internal/graph"
)

// SessionConfig is the first message a client sends after connecting.
type SessionConfig struct {
	Title    string         `json:"title"`
	Entities []graph.Entity `json:"entities" validate:"dive"`
	// Width and Height are the client's canvas size. Both zero means use the server default.
	Width  float64 `json:"width" validate:"required_with=Height,gte=0"`
	Height float64 `json:"height" validate:"required_with=Width,gte=0"`
}

// Event is any message a client sends after its SessionConfig. Which fields are used
// depends on Type.
type Event struct {
	Type string  `json:"type" validate:"required,oneof=pointerdown pointermove pointerup pointerenter pointerleave hoverclear resize rebuild"`
	Node string  `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Title    string         `json:"title"`
	Entities []graph.Entity `json:"entities" validate:"dive"`
}

type reply struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type sessionData struct {
	ID string `json:"id"`
}

type errorData struct {
	Message string `json:"message"`
}
