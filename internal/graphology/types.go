package graphology

type message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clearData struct {
	Title string `json:"title"`
}

type nodeAttributes struct {
	Label string  `json:"label"`
	Kind  string  `json:"kind"`
	Icon  string  `json:"icon"`
	Size  float64 `json:"size"`
	// The frontend resolves theme colours itself, so this is the raw token.
	Color string `json:"color"`
}

type node struct {
	Key        string         `json:"key"`
	Attributes nodeAttributes `json:"attributes"`
}

func (n node) toMessage() message {
	return message{Type: "node", Data: n}
}

type edge struct {
	Key    string  `json:"key"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

func (e edge) toMessage() message {
	return message{Type: "edge", Data: e}
}

type position struct {
	Key string  `json:"key"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

type frame struct {
	Seq       uint64     `json:"seq"`
	Energy    float64    `json:"energy"`
	Dragged   string     `json:"dragged,omitempty"`
	Hovered   string     `json:"hovered,omitempty"`
	Positions []position `json:"positions"`
}

func (f frame) toMessage() message {
	return message{Type: "frame", Data: f}
}
