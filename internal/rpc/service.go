// Package rpc exposes the layout engine as a gRPC service. Messages are
// google.protobuf.Struct values holding the JSON forms of LayoutRequest and
// LayoutResponse, so no generated code is needed.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

const (
	ServiceName = "convgraph.v1.Layout"

	layoutMethod = "/" + ServiceName + "/Layout"
	watchMethod  = "/" + ServiceName + "/Watch"
)

// LayoutRequest describes a graph to lay out.
type LayoutRequest struct {
	Title    string         `json:"title"`
	Entities []graph.Entity `json:"entities" validate:"dive"`
	// Width and Height default to the server's canvas when both are zero.
	Width  float64 `json:"width" validate:"required_with=Height,gte=0"`
	Height float64 `json:"height" validate:"required_with=Width,gte=0"`
	// Steps is how many frames Layout simulates before answering.
	Steps int `json:"steps" validate:"gte=0,lte=100000"`
	// Frames is how many frames Watch streams, zero streams until the client cancels.
	Frames int `json:"frames" validate:"gte=0"`
	// Interval overrides the server's frame interval for Watch.
	Interval lib.Duration `json:"interval"`
}

// LayoutResponse is one frame of the simulated graph.
type LayoutResponse struct {
	Seq      uint64         `json:"seq"`
	Energy   float64        `json:"energy"`
	Snapshot graph.Snapshot `json:"snapshot"`
}

// LayoutServer is the server API for the layout service.
type LayoutServer interface {
	Layout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Watch(*structpb.Struct, grpc.ServerStream) error
}

func layoutHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LayoutServer).Layout(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: layoutMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LayoutServer).Layout(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(LayoutServer).Watch(in, stream)
}

// ServiceDesc describes the layout service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LayoutServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Layout",
			Handler:    layoutHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "convgraph/v1/layout.proto",
}

func Register(s grpc.ServiceRegistrar, srv LayoutServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("convert to struct: %w", err)
	}
	return s, nil
}

// fromStruct is the inverse of toStruct.
func fromStruct(s *structpb.Struct, v interface{}) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("convert from struct: %w", err)
	}
	return nil
}
