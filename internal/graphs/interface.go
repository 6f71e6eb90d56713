package graphs

import (
	"fmt"
	"io"
	"os"

	"github.com/psidex/convgraph/internal/graph"
)

// Scene is one frame of a conversation graph as a renderer sees it.
type Scene struct {
	Snapshot   graph.Snapshot
	Dimensions graph.Dimensions
	// Hovered is the id of the node under the pointer, if any. Renderers that support it
	// highlight the node and its links and dim the rest.
	Hovered string
}

// Renderer draws a Scene in a single output format.
type Renderer interface {
	// Render writes the scene to w. It is safe to call from multiple goroutines.
	Render(w io.Writer, scene Scene) error

	// Extension is the file extension for the format, without the leading dot.
	Extension() string
}

// RenderToFile renders the scene to filename plus the renderer's extension, and returns
// the path written.
func RenderToFile(r Renderer, scene Scene, filename string) (string, error) {
	filename = filename + "." + r.Extension()

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := r.Render(file, scene); err != nil {
		return "", fmt.Errorf("render %s: %w", filename, err)
	}

	return filename, file.Close()
}
