package subscribers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchelldurbincs/minesweeper/internal/game/events"
)

// Record holds the results for one board shape.
type Record struct {
	Shape       string `json:"shape"`
	Played      int    `json:"played"`
	Won         int    `json:"won"`
	Lost        int    `json:"lost"`
	BestSeconds int    `json:"best_seconds"` // -1 until the first win
}

// WinRate is Won/Played, 0 when nothing was played.
func (r Record) WinRate() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.Won) / float64(r.Played)
}

// ShapeKey names a board shape, e.g. "9x9/10".
func ShapeKey(width, height, mines int) string {
	return fmt.Sprintf("%dx%d/%d", width, height, mines)
}

// StatsSubscriber tallies finished rounds per board shape.
type StatsSubscriber struct {
	id      string
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStatsSubscriber creates an empty statistics tally.
func NewStatsSubscriber(id string) *StatsSubscriber {
	return &StatsSubscriber{id: id, records: make(map[string]*Record)}
}

func (s *StatsSubscriber) ID() string { return s.id }

func (s *StatsSubscriber) InterestedIn(eventType string) bool {
	return eventType == events.TypeRoundWon || eventType == events.TypeRoundLost
}

func (s *StatsSubscriber) HandleEvent(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *events.RoundWonEvent:
		r := s.record(ShapeKey(e.Width, e.Height, e.Mines))
		r.Played++
		r.Won++
		if r.BestSeconds < 0 || e.Metadata.ElapsedSeconds < r.BestSeconds {
			r.BestSeconds = e.Metadata.ElapsedSeconds
		}
	case *events.RoundLostEvent:
		r := s.record(ShapeKey(e.Width, e.Height, e.Mines))
		r.Played++
		r.Lost++
	}
}

func (s *StatsSubscriber) record(key string) *Record {
	r, ok := s.records[key]
	if !ok {
		r = &Record{Shape: key, BestSeconds: -1}
		s.records[key] = r
	}
	return r
}

// Get returns the record for a shape.
func (s *StatsSubscriber) Get(width, height, mines int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[ShapeKey(width, height, mines)]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Snapshot returns all records sorted by shape.
func (s *StatsSubscriber) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shape < out[j].Shape })
	return out
}
