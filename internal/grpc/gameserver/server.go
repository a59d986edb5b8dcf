package gameserver

import (
	"context"

	"github.com/rs/zerolog"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

// Server implements the SweeperService gRPC server
type Server struct {
	sweeperv1.UnimplementedSweeperServiceServer

	gameManager *GameManager
	validator   *MoveValidator
	logger      zerolog.Logger
}

// NewServer creates a new game server around a game manager
func NewServer(gm *GameManager, logger zerolog.Logger) *Server {
	return &Server{
		gameManager: gm,
		validator:   NewMoveValidator(gm),
		logger:      logger.With().Str("component", "sweeper_service").Logger(),
	}
}

// CreateGame creates a new game with its first round ready
func (s *Server) CreateGame(ctx context.Context, req *sweeperv1.CreateGameRequest) (*sweeperv1.CreateGameResponse, error) {
	if err := s.validator.ValidateBoardConfig(req.Config); err != nil {
		return nil, toStatusError(err)
	}

	session, err := s.gameManager.CreateGame(ctx, req.Config)
	if err != nil {
		return nil, toStatusError(err)
	}

	engine := session.Engine()
	return &sweeperv1.CreateGameResponse{
		GameId: session.id,
		Config: convertBoardConfig(session.Difficulty(), engine.Config()),
		State:  convertGameState(session.id, engine),
	}, nil
}

// GetGame returns the visible state of a game
func (s *Server) GetGame(ctx context.Context, req *sweeperv1.GetGameRequest) (*sweeperv1.GetGameResponse, error) {
	session, err := s.validator.ValidateGameID(req.GameId)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &sweeperv1.GetGameResponse{State: convertGameState(session.id, session.Engine())}, nil
}

// Reveal reveals a cell
func (s *Server) Reveal(ctx context.Context, req *sweeperv1.RevealRequest) (*sweeperv1.MoveResponse, error) {
	session, err := s.validator.ValidateMove(req.GameId, req.Row, req.Col, req.IdempotencyKey)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := session.Reveal(int(req.Row), int(req.Col), req.IdempotencyKey)
	if err != nil {
		s.logger.Debug().Err(err).
			Str("game_id", req.GameId).
			Int32("row", req.Row).
			Int32("col", req.Col).
			Msg("Reveal rejected")
		return nil, toStatusError(err)
	}
	return resp, nil
}

// ToggleFlag places or removes a flag
func (s *Server) ToggleFlag(ctx context.Context, req *sweeperv1.ToggleFlagRequest) (*sweeperv1.MoveResponse, error) {
	session, err := s.validator.ValidateMove(req.GameId, req.Row, req.Col, req.IdempotencyKey)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := session.ToggleFlag(int(req.Row), int(req.Col), req.IdempotencyKey)
	if err != nil {
		s.logger.Debug().Err(err).
			Str("game_id", req.GameId).
			Int32("row", req.Row).
			Int32("col", req.Col).
			Msg("Flag toggle rejected")
		return nil, toStatusError(err)
	}
	return resp, nil
}

// Restart starts a new round, optionally on a different difficulty
func (s *Server) Restart(ctx context.Context, req *sweeperv1.RestartRequest) (*sweeperv1.RestartResponse, error) {
	session, err := s.validator.ValidateGameID(req.GameId)
	if err != nil {
		return nil, toStatusError(err)
	}
	if err := session.Restart(ctx, req.Difficulty); err != nil {
		return nil, toStatusError(err)
	}
	return &sweeperv1.RestartResponse{State: convertGameState(session.id, session.Engine())}, nil
}

// DeleteGame stops a game and closes its streams
func (s *Server) DeleteGame(ctx context.Context, req *sweeperv1.DeleteGameRequest) (*sweeperv1.DeleteGameResponse, error) {
	if _, err := s.validator.ValidateGameID(req.GameId); err != nil {
		return nil, toStatusError(err)
	}
	if err := s.gameManager.DeleteGame(req.GameId); err != nil {
		return nil, toStatusError(err)
	}
	return &sweeperv1.DeleteGameResponse{Deleted: true}, nil
}

// StreamGame sends the full state, then every change, tick and status
// update until the client leaves or the game is deleted
func (s *Server) StreamGame(req *sweeperv1.StreamGameRequest, stream sweeperv1.SweeperService_StreamGameServer) error {
	session, err := s.validator.ValidateGameID(req.GameId)
	if err != nil {
		return toStatusError(err)
	}

	logger := s.logger.With().Str("game_id", req.GameId).Logger()
	logger.Info().Msg("Client connecting to game stream")

	client := session.streams.NewClient(stream.Context())
	defer session.streams.UnregisterClient(client.id)

	state := convertGameState(session.id, session.Engine())
	initial := &sweeperv1.GameUpdate{
		Kind:           sweeperv1.UpdateKind_UPDATE_KIND_FULL_STATE,
		State:          state,
		Status:         state.Status,
		PlacedFlags:    state.PlacedFlags,
		ElapsedSeconds: state.ElapsedSeconds,
	}
	if err := stream.Send(initial); err != nil {
		logger.Error().Err(err).Msg("Failed to send initial game state")
		return err
	}

	for {
		select {
		case update, ok := <-client.updateChan:
			if !ok {
				logger.Info().Msg("Game closed, ending stream")
				return nil
			}
			if err := stream.Send(update); err != nil {
				logger.Error().Err(err).Msg("Stream error")
				return err
			}
		case <-client.ctx.Done():
			logger.Info().Msg("Stream closed by client")
			return nil
		}
	}
}

// GetActiveGames returns the number of games held by the server
func (s *Server) GetActiveGames() int {
	return s.gameManager.GetActiveGames()
}
