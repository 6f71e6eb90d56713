package vis

type node struct {
	ID    int     `json:"id"`
	Label string  `json:"label"`
	Title string  `json:"title"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Shape string  `json:"shape"`
	// vis.js would otherwise run its own layout on top of ours.
	Physics bool `json:"physics"`
}

type edge struct {
	From  int     `json:"from"`
	To    int     `json:"to"`
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type network struct {
	Title string `json:"title"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}
