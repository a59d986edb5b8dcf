package gameserver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

const defaultStreamBuffer = 32

// streamClient is one StreamGame subscriber
type streamClient struct {
	id         string
	ctx        context.Context
	cancelFunc context.CancelFunc
	updateChan chan *sweeperv1.GameUpdate
}

// StreamManager fans game updates out to the streams of one game
type StreamManager struct {
	clients    map[string]*streamClient
	clientsMu  sync.RWMutex
	bufferSize int
	dropped    int
	logger     zerolog.Logger
}

// NewStreamManager creates a stream manager whose clients buffer up to
// bufferSize updates
func NewStreamManager(bufferSize int, logger zerolog.Logger) *StreamManager {
	if bufferSize <= 0 {
		bufferSize = defaultStreamBuffer
	}
	return &StreamManager{
		clients:    make(map[string]*streamClient),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// NewClient registers a stream bound to parent and returns it
func (sm *StreamManager) NewClient(parent context.Context) *streamClient {
	ctx, cancel := context.WithCancel(parent)
	client := &streamClient{
		id:         uuid.NewString(),
		ctx:        ctx,
		cancelFunc: cancel,
		updateChan: make(chan *sweeperv1.GameUpdate, sm.bufferSize),
	}

	sm.clientsMu.Lock()
	sm.clients[client.id] = client
	total := len(sm.clients)
	sm.clientsMu.Unlock()

	sm.logger.Debug().
		Str("stream_id", client.id).
		Int("total_streams", total).
		Msg("Stream client registered")
	return client
}

// UnregisterClient removes a stream client
func (sm *StreamManager) UnregisterClient(id string) {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	if client, exists := sm.clients[id]; exists {
		client.cancelFunc()
		close(client.updateChan)
		delete(sm.clients, id)

		sm.logger.Debug().
			Str("stream_id", id).
			Int("remaining_streams", len(sm.clients)).
			Msg("Stream client unregistered")
	}
}

// BroadcastToAll queues update on every client without blocking. A full
// client drops the update.
func (sm *StreamManager) BroadcastToAll(update *sweeperv1.GameUpdate) {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}

	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	for id, client := range sm.clients {
		select {
		case client.updateChan <- update:
		default:
			sm.dropped++
			sm.logger.Warn().
				Str("stream_id", id).
				Int32("kind", int32(update.Kind)).
				Msg("Stream update channel full, dropping update")
		}
	}
}

// GetClientCount returns the number of connected stream clients
func (sm *StreamManager) GetClientCount() int {
	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()
	return len(sm.clients)
}

// Dropped returns how many updates were dropped on full clients
func (sm *StreamManager) Dropped() int {
	sm.clientsMu.RLock()
	defer sm.clientsMu.RUnlock()
	return sm.dropped
}

// CloseAll closes all stream clients
func (sm *StreamManager) CloseAll() {
	sm.clientsMu.Lock()
	defer sm.clientsMu.Unlock()

	for id, client := range sm.clients {
		client.cancelFunc()
		close(client.updateChan)
		delete(sm.clients, id)
	}
}
