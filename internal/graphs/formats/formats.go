// Package formats looks renderers up by name for the command line tools.
package formats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/psidex/convgraph/internal/graphs"
	"github.com/psidex/convgraph/internal/graphs/graphology"
	"github.com/psidex/convgraph/internal/graphs/vis"
)

var renderers = map[string]func() graphs.Renderer{
	"svg":        func() graphs.Renderer { return graphs.NewSVG() },
	"echarts":    func() graphs.Renderer { return graphs.NewECharts() },
	"vis":        func() graphs.Renderer { return vis.NewVis() },
	"graphology": func() graphs.Renderer { return graphology.NewGraphology() },
	"adjacency":  func() graphs.Renderer { return graphs.NewAdjacency() },
}

// ByName returns the renderer for a format name, ignoring case.
func ByName(name string) (graphs.Renderer, error) {
	newRenderer, ok := renderers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown format %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return newRenderer(), nil
}

// Names lists every format in sorted order.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsHTML reports whether a renderer produces a page a browser can screenshot.
func IsHTML(r graphs.Renderer) bool {
	switch r.Extension() {
	case "html", "svg":
		return true
	}
	return false
}
