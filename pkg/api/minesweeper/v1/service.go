package minesweeperv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	SweeperService_CreateGame_FullMethodName = "/minesweeper.v1.SweeperService/CreateGame"
	SweeperService_GetGame_FullMethodName    = "/minesweeper.v1.SweeperService/GetGame"
	SweeperService_Reveal_FullMethodName     = "/minesweeper.v1.SweeperService/Reveal"
	SweeperService_ToggleFlag_FullMethodName = "/minesweeper.v1.SweeperService/ToggleFlag"
	SweeperService_Restart_FullMethodName    = "/minesweeper.v1.SweeperService/Restart"
	SweeperService_DeleteGame_FullMethodName = "/minesweeper.v1.SweeperService/DeleteGame"
	SweeperService_StreamGame_FullMethodName = "/minesweeper.v1.SweeperService/StreamGame"
)

// SweeperServiceServer is the server API for SweeperService.
type SweeperServiceServer interface {
	CreateGame(context.Context, *CreateGameRequest) (*CreateGameResponse, error)
	GetGame(context.Context, *GetGameRequest) (*GetGameResponse, error)
	Reveal(context.Context, *RevealRequest) (*MoveResponse, error)
	ToggleFlag(context.Context, *ToggleFlagRequest) (*MoveResponse, error)
	Restart(context.Context, *RestartRequest) (*RestartResponse, error)
	DeleteGame(context.Context, *DeleteGameRequest) (*DeleteGameResponse, error)
	StreamGame(*StreamGameRequest, SweeperService_StreamGameServer) error
}

// UnimplementedSweeperServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedSweeperServiceServer struct{}

func (UnimplementedSweeperServiceServer) CreateGame(context.Context, *CreateGameRequest) (*CreateGameResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateGame not implemented")
}
func (UnimplementedSweeperServiceServer) GetGame(context.Context, *GetGameRequest) (*GetGameResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetGame not implemented")
}
func (UnimplementedSweeperServiceServer) Reveal(context.Context, *RevealRequest) (*MoveResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Reveal not implemented")
}
func (UnimplementedSweeperServiceServer) ToggleFlag(context.Context, *ToggleFlagRequest) (*MoveResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ToggleFlag not implemented")
}
func (UnimplementedSweeperServiceServer) Restart(context.Context, *RestartRequest) (*RestartResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Restart not implemented")
}
func (UnimplementedSweeperServiceServer) DeleteGame(context.Context, *DeleteGameRequest) (*DeleteGameResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteGame not implemented")
}
func (UnimplementedSweeperServiceServer) StreamGame(*StreamGameRequest, SweeperService_StreamGameServer) error {
	return status.Errorf(codes.Unimplemented, "method StreamGame not implemented")
}

// SweeperService_StreamGameServer is the server side of StreamGame.
type SweeperService_StreamGameServer interface {
	Send(*GameUpdate) error
	grpc.ServerStream
}

type sweeperServiceStreamGameServer struct {
	grpc.ServerStream
}

func (x *sweeperServiceStreamGameServer) Send(m *GameUpdate) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterSweeperServiceServer registers srv on s.
func RegisterSweeperServiceServer(s grpc.ServiceRegistrar, srv SweeperServiceServer) {
	s.RegisterService(&SweeperService_ServiceDesc, srv)
}

func _SweeperService_CreateGame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateGameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).CreateGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_CreateGame_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).CreateGame(ctx, req.(*CreateGameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_GetGame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetGameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).GetGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_GetGame_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).GetGame(ctx, req.(*GetGameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_Reveal_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RevealRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).Reveal(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_Reveal_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).Reveal(ctx, req.(*RevealRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_ToggleFlag_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ToggleFlagRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).ToggleFlag(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_ToggleFlag_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).ToggleFlag(ctx, req.(*ToggleFlagRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_Restart_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RestartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).Restart(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_Restart_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).Restart(ctx, req.(*RestartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_DeleteGame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteGameRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SweeperServiceServer).DeleteGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SweeperService_DeleteGame_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SweeperServiceServer).DeleteGame(ctx, req.(*DeleteGameRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _SweeperService_StreamGame_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamGameRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(SweeperServiceServer).StreamGame(m, &sweeperServiceStreamGameServer{stream})
}

// SweeperService_ServiceDesc is the grpc.ServiceDesc for SweeperService.
var SweeperService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "minesweeper.v1.SweeperService",
	HandlerType: (*SweeperServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateGame", Handler: _SweeperService_CreateGame_Handler},
		{MethodName: "GetGame", Handler: _SweeperService_GetGame_Handler},
		{MethodName: "Reveal", Handler: _SweeperService_Reveal_Handler},
		{MethodName: "ToggleFlag", Handler: _SweeperService_ToggleFlag_Handler},
		{MethodName: "Restart", Handler: _SweeperService_Restart_Handler},
		{MethodName: "DeleteGame", Handler: _SweeperService_DeleteGame_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamGame",
			Handler:       _SweeperService_StreamGame_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "minesweeper/v1/sweeper.proto",
}
