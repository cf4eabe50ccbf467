package audit

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

// Subscriber buffers command transitions from the event bus and writes them
// to a Store when a turn ends.
type Subscriber struct {
	id      string
	store   Store
	logger  zerolog.Logger
	mu      sync.Mutex
	pending []Record
	written int
}

// NewSubscriber creates a bus subscriber backed by store
func NewSubscriber(id string, store Store, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		id:     id,
		store:  store,
		logger: logger.With().Str("subscriber", "audit").Logger(),
	}
}

func (s *Subscriber) ID() string { return s.id }

func (s *Subscriber) InterestedIn(eventType string) bool {
	return strings.HasPrefix(eventType, "command.") || eventType == events.TypeTurnEnded
}

func (s *Subscriber) HandleEvent(event events.Event) {
	switch ev := event.(type) {
	case *events.CommandEvent:
		s.mu.Lock()
		s.pending = append(s.pending, RecordFromEvent(ev))
		s.mu.Unlock()
	case *events.TurnEndedEvent:
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Error().Err(err).Int("turn", ev.TurnNumber).Msg("Failed to write transitions")
		}
	}
}

// Flush writes buffered records. On failure the buffer is kept for the next
// attempt.
func (s *Subscriber) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}
	if err := s.store.Write(ctx, s.pending); err != nil {
		return err
	}
	s.written += len(s.pending)
	s.pending = s.pending[:0]
	return nil
}

// Written reports how many records reached the store
func (s *Subscriber) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

var _ events.Subscriber = (*Subscriber)(nil)
