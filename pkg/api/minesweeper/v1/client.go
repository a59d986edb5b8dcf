package minesweeperv1

import (
	"context"

	"google.golang.org/grpc"
)

// SweeperServiceClient is the client API for SweeperService.
type SweeperServiceClient interface {
	CreateGame(ctx context.Context, in *CreateGameRequest, opts ...grpc.CallOption) (*CreateGameResponse, error)
	GetGame(ctx context.Context, in *GetGameRequest, opts ...grpc.CallOption) (*GetGameResponse, error)
	Reveal(ctx context.Context, in *RevealRequest, opts ...grpc.CallOption) (*MoveResponse, error)
	ToggleFlag(ctx context.Context, in *ToggleFlagRequest, opts ...grpc.CallOption) (*MoveResponse, error)
	Restart(ctx context.Context, in *RestartRequest, opts ...grpc.CallOption) (*RestartResponse, error)
	DeleteGame(ctx context.Context, in *DeleteGameRequest, opts ...grpc.CallOption) (*DeleteGameResponse, error)
	StreamGame(ctx context.Context, in *StreamGameRequest, opts ...grpc.CallOption) (SweeperService_StreamGameClient, error)
}

type sweeperServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSweeperServiceClient wraps cc. Every call is sent with the json
// content subtype; callers do not need to set it.
func NewSweeperServiceClient(cc grpc.ClientConnInterface) SweeperServiceClient {
	return &sweeperServiceClient{cc}
}

func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *sweeperServiceClient) CreateGame(ctx context.Context, in *CreateGameRequest, opts ...grpc.CallOption) (*CreateGameResponse, error) {
	out := new(CreateGameResponse)
	if err := c.cc.Invoke(ctx, SweeperService_CreateGame_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sweeperServiceClient) GetGame(ctx context.Context, in *GetGameRequest, opts ...grpc.CallOption) (*GetGameResponse, error) {
	out := new(GetGameResponse)
	if err := c.cc.Invoke(ctx, SweeperService_GetGame_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sweeperServiceClient) Reveal(ctx context.Context, in *RevealRequest, opts ...grpc.CallOption) (*MoveResponse, error) {
	out := new(MoveResponse)
	if err := c.cc.Invoke(ctx, SweeperService_Reveal_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sweeperServiceClient) ToggleFlag(ctx context.Context, in *ToggleFlagRequest, opts ...grpc.CallOption) (*MoveResponse, error) {
	out := new(MoveResponse)
	if err := c.cc.Invoke(ctx, SweeperService_ToggleFlag_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sweeperServiceClient) Restart(ctx context.Context, in *RestartRequest, opts ...grpc.CallOption) (*RestartResponse, error) {
	out := new(RestartResponse)
	if err := c.cc.Invoke(ctx, SweeperService_Restart_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sweeperServiceClient) DeleteGame(ctx context.Context, in *DeleteGameRequest, opts ...grpc.CallOption) (*DeleteGameResponse, error) {
	out := new(DeleteGameResponse)
	if err := c.cc.Invoke(ctx, SweeperService_DeleteGame_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// SweeperService_StreamGameClient is the client side of StreamGame.
type SweeperService_StreamGameClient interface {
	Recv() (*GameUpdate, error)
	grpc.ClientStream
}

type sweeperServiceStreamGameClient struct {
	grpc.ClientStream
}

func (x *sweeperServiceStreamGameClient) Recv() (*GameUpdate, error) {
	m := new(GameUpdate)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *sweeperServiceClient) StreamGame(ctx context.Context, in *StreamGameRequest, opts ...grpc.CallOption) (SweeperService_StreamGameClient, error) {
	stream, err := c.cc.NewStream(ctx, &SweeperService_ServiceDesc.Streams[0], SweeperService_StreamGame_FullMethodName, callOpts(opts)...)
	if err != nil {
		return nil, err
	}
	x := &sweeperServiceStreamGameClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
