// Package conversionv1 holds the gRPC binding of conversion.proto. The
// service only carries well-known Struct messages, so the stubs are kept
// by hand instead of generated.
package conversionv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	Conversion_ServiceName                  = "chartbridge.v1.Conversion"
	Conversion_DslToWorkflow_FullMethodName = "/chartbridge.v1.Conversion/DslToWorkflow"
	Conversion_VegaToDsl_FullMethodName     = "/chartbridge.v1.Conversion/VegaToDsl"
)

// ConversionClient is the client API for the Conversion service.
type ConversionClient interface {
	DslToWorkflow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	VegaToDsl(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type conversionClient struct {
	cc grpc.ClientConnInterface
}

func NewConversionClient(cc grpc.ClientConnInterface) ConversionClient {
	return &conversionClient{cc}
}

func (c *conversionClient) DslToWorkflow(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Conversion_DslToWorkflow_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *conversionClient) VegaToDsl(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Conversion_VegaToDsl_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ConversionServer is the server API for the Conversion service.
type ConversionServer interface {
	DslToWorkflow(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VegaToDsl(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedConversionServer can be embedded to have forward compatible implementations.
type UnimplementedConversionServer struct{}

func (UnimplementedConversionServer) DslToWorkflow(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DslToWorkflow not implemented")
}

func (UnimplementedConversionServer) VegaToDsl(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method VegaToDsl not implemented")
}

func RegisterConversionServer(s grpc.ServiceRegistrar, srv ConversionServer) {
	s.RegisterService(&Conversion_ServiceDesc, srv)
}

func _Conversion_DslToWorkflow_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConversionServer).DslToWorkflow(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Conversion_DslToWorkflow_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConversionServer).DslToWorkflow(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Conversion_VegaToDsl_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConversionServer).VegaToDsl(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Conversion_VegaToDsl_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConversionServer).VegaToDsl(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Conversion_ServiceDesc is the grpc.ServiceDesc for the Conversion service.
var Conversion_ServiceDesc = grpc.ServiceDesc{
	ServiceName: Conversion_ServiceName,
	HandlerType: (*ConversionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "DslToWorkflow",
			Handler:    _Conversion_DslToWorkflow_Handler,
		},
		{
			MethodName: "VegaToDsl",
			Handler:    _Conversion_VegaToDsl_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/conversion/v1/conversion.proto",
}
