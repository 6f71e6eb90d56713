package graphology

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
)

type recorder struct {
	messages []map[string]interface{}
	failOn   int
}

func (r *recorder) WriteJSON(v interface{}) error {
	if r.failOn > 0 && len(r.messages)+1 == r.failOn {
		return errors.New("write failed")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m["type"].(string))
	}
	return out
}

func testFrame(seq, gen uint64, names ...string) engine.Frame {
	entities := make([]graph.Entity, 0, len(names))
	for _, name := range names {
		entities = append(entities, graph.Entity{Name: name, Type: "person"})
	}
	return engine.Frame{Seq: seq, Generation: gen, Snapshot: graph.Build(entities, "Q4 Review")}
}

func TestStream_FirstFrameSendsStructure(t *testing.T) {
	r := &recorder{}
	s := NewStream(r)

	require.NoError(t, s.Send(testFrame(1, 0, "Sarah Chen", "Acme Corp")))
	assert.Equal(t, []string{"clear", "node", "node", "node", "edge", "edge", "frame"}, r.types())

	cleared := r.messages[0]["data"].(map[string]interface{})
	assert.Equal(t, "Q4 Review", cleared["title"])

	root := r.messages[1]["data"].(map[string]interface{})
	assert.Equal(t, graph.RootID, root["key"])
	attrs := root["attributes"].(map[string]interface{})
	assert.Equal(t, "meeting", attrs["kind"])
	assert.Equal(t, "calendar", attrs["icon"])

	last := r.messages[6]["data"].(map[string]interface{})
	assert.Equal(t, 1.0, last["seq"])
	assert.Len(t, last["positions"], 3)
}

func TestStream_LaterFramesOnlyPositions(t *testing.T) {
	r := &recorder{}
	s := NewStream(r)

	require.NoError(t, s.Send(testFrame(1, 0, "Sarah Chen")))
	r.messages = nil
	require.NoError(t, s.Send(testFrame(2, 0, "Sarah Chen")))
	assert.Equal(t, []string{"frame"}, r.types())
}

func TestStream_RebuildClears(t *testing.T) {
	r := &recorder{}
	s := NewStream(r)

	require.NoError(t, s.Send(testFrame(1, 0, "Sarah Chen", "Acme Corp")))
	r.messages = nil
	require.NoError(t, s.Send(testFrame(1, 1, "Pricing")))
	assert.Equal(t, []string{"clear", "node", "node", "edge", "frame"}, r.types())

	sent := r.messages[3]["data"].(map[string]interface{})
	assert.Equal(t, "1", sent["key"])
	assert.Equal(t, 0.8, sent["weight"])
}

func TestStream_WriteErrorStops(t *testing.T) {
	r := &recorder{failOn: 2}
	s := NewStream(r)

	err := s.Send(testFrame(1, 0, "Sarah Chen"))
	require.Error(t, err)
	assert.Equal(t, []string{"clear"}, r.types())
}
