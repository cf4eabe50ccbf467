package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/command"
	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

func sampleRecords() []Record {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Record{
		{MatchID: "m1", Country: "blue", CommandID: "0", Kind: "attack", Turn: 3, From: "none", To: "in_progress", Estimated: 5, RecordedAt: at},
		{MatchID: "m1", Country: "blue", CommandID: "0", Kind: "attack", Turn: 4, From: "in_progress", To: "in_progress", Elapsed: 1, Estimated: 5, RecordedAt: at.Add(time.Second)},
		{MatchID: "m1", Country: "blue", CommandID: "1", Kind: "collect", Turn: 4, From: "in_progress", To: "failed", Reason: "piece disappeared", RecordedAt: at.Add(2 * time.Second)},
		{MatchID: "m1", Country: "red", CommandID: "0", Kind: "build", Turn: 4, From: "none", To: "in_progress", RecordedAt: at.Add(3 * time.Second)},
		{MatchID: "m2", Country: "blue", CommandID: "0", Kind: "spy", Turn: 1, From: "none", To: "in_progress", RecordedAt: at},
	}
}

func TestStores(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()

	stores := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(dir, "audit.db"), logger)
			require.NoError(t, err)
			return s
		},
		"file": func(t *testing.T) Store {
			s, err := OpenFile(filepath.Join(dir, "audit.jsonl"), logger)
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)
			defer store.Close()

			require.NoError(t, store.Write(ctx, sampleRecords()))

			history, err := store.History(ctx, "m1", "blue", "0")
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, "none", history[0].From)
			assert.Equal(t, "in_progress", history[0].To)
			assert.Equal(t, 1, history[1].Elapsed)
			assert.Equal(t, 5, history[1].Estimated)
			assert.True(t, history[1].RecordedAt.Equal(sampleRecords()[1].RecordedAt))

			red, err := store.History(ctx, "m1", "red", "0")
			require.NoError(t, err)
			require.Len(t, red, 1)
			assert.Equal(t, "build", red[0].Kind)

			blue, err := store.History(ctx, "m1", "blue", "")
			require.NoError(t, err)
			require.Len(t, blue, 3)
			assert.Equal(t, "piece disappeared", blue[2].Reason)
			assert.Equal(t, "failed", blue[2].To)

			all, err := store.History(ctx, "m1", "", "")
			require.NoError(t, err)
			assert.Len(t, all, 4)

			none, err := store.History(ctx, "missing", "", "")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestFileSinkClosed(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "audit.jsonl"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err = s.Write(context.Background(), sampleRecords())
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.AuditConfig{Type: "none"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	s, err = Open(config.AuditConfig{Type: "sqlite", Path: filepath.Join(dir, "a.db")}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(config.AuditConfig{Type: "file", Path: filepath.Join(dir, "a.jsonl")}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.AuditConfig{Type: "kafka"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidStoreType)
}

type failingStore struct {
	NopStore
	fail    bool
	batches [][]Record
}

func (f *failingStore) Write(_ context.Context, records []Record) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.batches = append(f.batches, append([]Record(nil), records...))
	return nil
}

func TestSubscriber(t *testing.T) {
	store := &failingStore{}
	sub := NewSubscriber("audit", store, zerolog.Nop())
	bus := events.NewEventBus()
	bus.Subscribe(sub)

	assert.True(t, sub.InterestedIn(events.TypeCommandIssued))
	assert.True(t, sub.InterestedIn(events.TypeTurnEnded))
	assert.False(t, sub.InterestedIn(events.TypePieceBuilt))

	issued := events.NewCommandEvent(events.TypeCommandIssued, "m1", "cmd-1", "attack", 1)
	issued.Country = "blue"
	issued.ToStatus = "in_progress"
	issued.Estimated = 4
	bus.Publish(issued)
	bus.Publish(events.NewPieceBuiltEvent("m1", "b1", "t1", core.Tank, core.Coordinate{}, 10, 1))
	assert.Empty(t, store.batches, "nothing is written before the turn ends")

	bus.Publish(events.NewTurnEndedEvent("m1", 1, 1, 1, time.Millisecond))
	require.Len(t, store.batches, 1)
	require.Len(t, store.batches[0], 1)
	assert.Equal(t, "cmd-1", store.batches[0][0].CommandID)
	assert.Equal(t, "blue", store.batches[0][0].Country)
	assert.Equal(t, 4, store.batches[0][0].Estimated)
	assert.Equal(t, 1, sub.Written())

	store.fail = true
	bus.Publish(events.NewCommandEvent(events.TypeCommandSucceeded, "m1", "cmd-1", "attack", 2))
	bus.Publish(events.NewTurnEndedEvent("m1", 2, 0, 0, time.Millisecond))
	assert.Equal(t, 1, sub.Written())

	store.fail = false
	require.NoError(t, sub.Flush(context.Background()))
	require.Len(t, store.batches, 2)
	assert.Equal(t, 2, store.batches[1][0].Turn)
	assert.Equal(t, 2, sub.Written())
}

// Two countries' registries number their commands independently; the audit
// trail keeps them apart.
func TestSubscriber_TwoRegistriesShareOneBus(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "audit.db"), zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	bus := events.NewEventBusWithLogger(zerolog.Nop())
	sub := NewSubscriber("audit", store, zerolog.Nop())
	bus.Subscribe(sub)

	blue := command.NewRegistry("m", "blue", bus, zerolog.Nop())
	red := command.NewRegistry("m", "red", bus, zerolog.Nop())

	blueID := blue.Create(command.Spec{Kind: command.KindAttack})
	redID := red.Create(command.Spec{Kind: command.KindBuild})
	require.Equal(t, blueID, redID, "ids collide across registries")
	require.NoError(t, blue.Succeed(blueID, "arrived"))
	require.NoError(t, red.Fail(redID, "no owned tiles"))
	require.NoError(t, sub.Flush(ctx))

	history, err := store.History(ctx, "m", "blue", blueID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, r := range history {
		assert.Equal(t, "blue", r.Country)
		assert.Equal(t, "attack", r.Kind)
	}
	assert.Equal(t, "none", history[0].From)
	assert.Equal(t, "succeeded", history[1].To)
	assert.Equal(t, "arrived", history[1].Reason)

	history, err = store.History(ctx, "m", "red", redID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "failed", history[1].To)
	assert.Equal(t, "no owned tiles", history[1].Reason)
}
