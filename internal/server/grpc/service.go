package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The identity service is described by hand over well-known types, so no
// protoc step is needed to build it.
const (
	IdentityServiceName = "assettrack.v1.IdentityService"

	LoginFullMethodName      = "/" + IdentityServiceName + "/Login"
	WhoAmIFullMethodName     = "/" + IdentityServiceName + "/WhoAmI"
	IntrospectFullMethodName = "/" + IdentityServiceName + "/Introspect"
)

type IdentityServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WhoAmI(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Introspect(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: loginHandler},
		{MethodName: "WhoAmI", Handler: whoAmIHandler},
		{MethodName: "Introspect", Handler: introspectHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assettrack/v1/identity.proto",
}

func loginHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LoginFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).Login(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func whoAmIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).WhoAmI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WhoAmIFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).WhoAmI(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func introspectHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).Introspect(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IntrospectFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).Introspect(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// IdentityServiceClient is the client side of the identity service.
type IdentityServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityServiceClient(cc grpc.ClientConnInterface) *IdentityServiceClient {
	return &IdentityServiceClient{cc: cc}
}

func (c *IdentityServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LoginFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityServiceClient) WhoAmI(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, WhoAmIFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityServiceClient) Introspect(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, IntrospectFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
