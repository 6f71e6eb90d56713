package rpc

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

var testEntities = []graph.Entity{
	{ID: "1", Name: "Sarah Chen", Type: "person"},
	{ID: "2", Name: "Acme Corp", Type: "company"},
	{ID: "3", Name: "Pricing", Type: "topic"},
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(lib.Discard())))
	Register(s, NewServer(engine.Options{
		Dimensions:    graph.Dimensions{Width: 400, Height: 320},
		FrameInterval: time.Millisecond,
	}, nil))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func TestLayout(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Layout(context.Background(), LayoutRequest{
		Title:    "Q4 Review",
		Entities: testEntities,
		Width:    400,
		Height:   320,
		Steps:    200,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(200), resp.Seq)
	assert.Equal(t, "Q4 Review", resp.Snapshot.Title)
	require.Len(t, resp.Snapshot.Nodes, 4)
	require.Len(t, resp.Snapshot.Links, 3)
	assert.Equal(t, graph.NodeCompany, resp.Snapshot.Nodes[2].Type)
	assert.Equal(t, []string{graph.RootID}, resp.Snapshot.Nodes[1].Connections)

	for _, n := range resp.Snapshot.Nodes {
		assert.GreaterOrEqual(t, n.X, n.Size)
		assert.LessOrEqual(t, n.X, 400-n.Size)
		assert.GreaterOrEqual(t, n.Y, n.Size)
		assert.LessOrEqual(t, n.Y, 320-n.Size)
	}
}

func TestLayout_DefaultSteps(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Layout(context.Background(), LayoutRequest{Entities: testEntities})
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultSteps), resp.Seq)
	assert.Equal(t, graph.DefaultTitle, resp.Snapshot.Title)
}

func TestLayout_InvalidArgument(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name string
		req  LayoutRequest
	}{
		{"negative width", LayoutRequest{Width: -1, Height: 10}},
		{"width without height", LayoutRequest{Width: 100}},
		{"height without width", LayoutRequest{Height: 100}},
		{"too many steps", LayoutRequest{Steps: 1_000_000}},
		{"nameless entity", LayoutRequest{Entities: []graph.Entity{{Type: "person"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Layout(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestLayout_BadStruct(t *testing.T) {
	s := NewServer(engine.Options{Dimensions: graph.Dimensions{Width: 400, Height: 320}}, nil)

	in, err := structpb.NewStruct(map[string]interface{}{"entities": "not a list"})
	require.NoError(t, err)

	_, err = s.Layout(context.Background(), in)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestLayout_Cancelled(t *testing.T) {
	s := NewServer(engine.Options{Dimensions: graph.Dimensions{Width: 400, Height: 320}}, nil)

	in, err := toStruct(LayoutRequest{Entities: testEntities})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Layout(ctx, in)
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestWatch(t *testing.T) {
	c := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w, err := c.Watch(ctx, LayoutRequest{
		Entities: testEntities,
		Frames:   3,
		Interval: lib.DurationFrom(time.Millisecond),
	})
	require.NoError(t, err)

	var last uint64
	for i := 0; i < 3; i++ {
		resp, err := w.Recv()
		require.NoError(t, err)
		assert.Greater(t, resp.Seq, last)
		assert.Len(t, resp.Snapshot.Nodes, 4)
		last = resp.Seq
	}

	_, err = w.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWatch_InvalidArgument(t *testing.T) {
	c := newTestClient(t)

	w, err := c.Watch(context.Background(), LayoutRequest{Width: -5, Height: 5})
	require.NoError(t, err)

	_, err = w.Recv()
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
