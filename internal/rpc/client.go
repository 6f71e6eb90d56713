package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a layout service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc}
}

func (c *Client) Layout(ctx context.Context, req LayoutRequest, opts ...grpc.CallOption) (LayoutResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return LayoutResponse{}, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, layoutMethod, in, out, opts...); err != nil {
		return LayoutResponse{}, err
	}

	resp := LayoutResponse{}
	err = fromStruct(out, &resp)
	return resp, err
}

// Watch starts streaming frames for req. Recv returns io.EOF once the server is done.
func (c *Client) Watch(ctx context.Context, req LayoutRequest, opts ...grpc.CallOption) (*WatchClient, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}

	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], watchMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	return &WatchClient{stream}, nil
}

type WatchClient struct {
	stream grpc.ClientStream
}

func (w *WatchClient) Recv() (LayoutResponse, error) {
	out := new(structpb.Struct)
	if err := w.stream.RecvMsg(out); err != nil {
		return LayoutResponse{}, err
	}

	resp := LayoutResponse{}
	err := fromStruct(out, &resp)
	return resp, err
}
