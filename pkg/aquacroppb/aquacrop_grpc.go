// Package aquacroppb defines the labmet.AquaCrop gRPC service. Requests and
// responses are google.protobuf.Struct values, so no generated message code
// is needed; the layout follows protoc-gen-go-grpc output.
package aquacroppb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "labmet.AquaCrop"

	AquaCrop_GetState_FullMethodName = "/labmet.AquaCrop/GetState"
	AquaCrop_Process_FullMethodName  = "/labmet.AquaCrop/Process"
)

// AquaCropClient is the client API for the AquaCrop service.
//
// GetState takes {"plot_id"} and returns the plot state.
// Process takes {"plot_id", "time", "temperature", "illuminance",
// "soil_moisture"} and returns the simulation result.
type AquaCropClient interface {
	GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Process(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type aquaCropClient struct {
	cc grpc.ClientConnInterface
}

func NewAquaCropClient(cc grpc.ClientConnInterface) AquaCropClient {
	return &aquaCropClient{cc}
}

func (c *aquaCropClient) GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AquaCrop_GetState_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aquaCropClient) Process(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AquaCrop_Process_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AquaCropServer is the server API for the AquaCrop service.
type AquaCropServer interface {
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Process(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedAquaCropServer can be embedded for forward compatibility.
type UnimplementedAquaCropServer struct{}

func (UnimplementedAquaCropServer) GetState(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetState not implemented")
}

func (UnimplementedAquaCropServer) Process(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Process not implemented")
}

func RegisterAquaCropServer(s grpc.ServiceRegistrar, srv AquaCropServer) {
	s.RegisterService(&AquaCrop_ServiceDesc, srv)
}

func _AquaCrop_GetState_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AquaCropServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AquaCrop_GetState_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AquaCropServer).GetState(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _AquaCrop_Process_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AquaCropServer).Process(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AquaCrop_Process_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AquaCropServer).Process(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AquaCrop_ServiceDesc is the grpc.ServiceDesc for the AquaCrop service.
var AquaCrop_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AquaCropServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetState",
			Handler:    _AquaCrop_GetState_Handler,
		},
		{
			MethodName: "Process",
			Handler:    _AquaCrop_Process_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "labmet/aquacrop.proto",
}
