package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when no record has the requested ID
	ErrNotFound = errors.New("replay not found")
	// ErrInvalidStoreType is returned when an unknown store type is configured
	ErrInvalidStoreType = errors.New("invalid replay store type")
	// ErrInvalidID is returned for record IDs that are not UUIDs
	ErrInvalidID = errors.New("invalid replay id")
)

// StoreType represents the type of persistence backend
type StoreType string

const (
	// StoreTypeNone disables persistence
	StoreTypeNone StoreType = "none"
	// StoreTypeMemory keeps records in process memory
	StoreTypeMemory StoreType = "memory"
	// StoreTypeFile writes one JSON document per record
	StoreTypeFile StoreType = "file"
	// StoreTypeBadger uses an embedded Badger key-value store
	StoreTypeBadger StoreType = "badger"
)

// StoreConfig contains configuration for the persistence layer
type StoreConfig struct {
	Type    StoreType
	BaseDir string
}

// Store persists finished rounds
type Store interface {
	// Save writes or replaces a record
	Save(ctx context.Context, rec *Record) error

	// Load returns the record with the given ID
	Load(ctx context.Context, id string) (*Record, error)

	// List returns record IDs, oldest first
	List(ctx context.Context) ([]string, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Close releases resources
	Close() error

	// Stats returns persistence statistics
	Stats() StoreStats
}

// StoreStats contains statistics about persistence operations
type StoreStats struct {
	TotalWritten  int64
	TotalRead     int64
	TotalDeleted  int64
	BytesWritten  int64
	WriteErrors   int64
	LastWriteTime time.Time
}

// NewStore builds the store selected by cfg. StoreTypeNone returns nil.
func NewStore(cfg StoreConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "", StoreTypeNone:
		return nil, nil
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeFile:
		fs, err := NewFileStore(cfg.BaseDir, logger)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case StoreTypeBadger:
		bs, err := NewBadgerStore(cfg.BaseDir, logger)
		if err != nil {
			return nil, err
		}
		return bs, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, cfg.Type)
	}
}

// MemoryStore keeps records in a map
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
	stats   StoreStats
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (m *MemoryStore) Save(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.ID]; !ok {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec
	m.stats.TotalWritten++
	m.stats.LastWriteTime = time.Now()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.stats.TotalRead++
	return rec, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.stats.TotalDeleted++
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Stats() StoreStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// FileStore writes each record to <BaseDir>/<id>.json
type FileStore struct {
	baseDir string
	logger  zerolog.Logger

	mu    sync.RWMutex
	stats StoreStats
}

// NewFileStore creates a new file-based store
func NewFileStore(baseDir string, logger zerolog.Logger) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "replays"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create replay directory: %w", err)
	}
	return &FileStore{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "replay_file_store").Logger(),
	}, nil
}

// path maps a record ID to its file. Only canonical UUIDs are accepted, so
// an ID never names a file outside baseDir.
func (fs *FileStore) path(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(fs.baseDir, id+".json"), nil
}

func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func (fs *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.path(rec.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replay: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	// Write to a temp file first so readers never see a partial record.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		fs.stats.WriteErrors++
		return fmt.Errorf("failed to write replay: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		fs.stats.WriteErrors++
		return fmt.Errorf("failed to commit replay: %w", err)
	}

	fs.stats.TotalWritten++
	fs.stats.BytesWritten += int64(len(data))
	fs.stats.LastWriteTime = time.Now()
	fs.logger.Debug().Str("record_id", rec.ID).Int("bytes", len(data)).Msg("Replay written")
	return nil
}

func (fs *FileStore) Load(ctx context.Context, id string) (*Record, error) {
	path, err := fs.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode replay %s: %w", id, err)
	}

	fs.mu.Lock()
	fs.stats.TotalRead++
	fs.mu.Unlock()
	return &rec, nil
}

func (fs *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list replays: %w", err)
	}

	type item struct {
		id  string
		mod time.Time
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if !validID(id) {
			continue
		}
		items = append(items, item{id: id, mod: info.ModTime()})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].mod.Before(items[j].mod) })

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}

func (fs *FileStore) Delete(ctx context.Context, id string) error {
	path, err := fs.path(id)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete replay: %w", err)
	}

	fs.mu.Lock()
	fs.stats.TotalDeleted++
	fs.mu.Unlock()
	return nil
}

func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) Stats() StoreStats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.stats
}
