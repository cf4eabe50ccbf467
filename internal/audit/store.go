// Package audit persists the command registry's transition history so a
// match can be inspected after the fact.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TacticalCommander/internal/config"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

var (
	// ErrInvalidStoreType is returned when an unknown audit type is configured
	ErrInvalidStoreType = errors.New("invalid audit store type")
	// ErrStoreClosed is returned when writing to a closed store
	ErrStoreClosed = errors.New("audit store closed")
)

// StoreType selects the audit backend
type StoreType string

const (
	StoreTypeNone   StoreType = "none"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeFile   StoreType = "file"
)

// Record is one command transition
type Record struct {
	MatchID    string
	Country    string
	CommandID  string
	Kind       string
	Turn       int
	From       string
	To         string
	Elapsed    int
	Estimated  int
	Reason     string
	RecordedAt time.Time
}

// RecordFromEvent converts a registry event into a record
func RecordFromEvent(ev *events.CommandEvent) Record {
	return Record{
		MatchID:    ev.MatchID(),
		Country:    ev.Country,
		CommandID:  ev.CommandID,
		Kind:       ev.Kind,
		Turn:       ev.TurnNumber,
		From:       ev.FromStatus,
		To:         ev.ToStatus,
		Elapsed:    ev.Elapsed,
		Estimated:  ev.Estimated,
		Reason:     ev.Reason,
		RecordedAt: ev.Timestamp(),
	}
}

// Store persists transition records
type Store interface {
	// Write appends records in order
	Write(ctx context.Context, records []Record) error
	// History returns matching records in write order. Command ids are only
	// unique per country. An empty country or commandID matches any.
	History(ctx context.Context, matchID, country, commandID string) ([]Record, error)
	Close() error
}

// Open creates the store selected by the audit configuration. StoreTypeNone
// yields a store that drops everything.
func Open(cfg config.AuditConfig, logger zerolog.Logger) (Store, error) {
	switch StoreType(cfg.Type) {
	case StoreTypeNone, "":
		return NopStore{}, nil
	case StoreTypeSQLite:
		return OpenSQLite(cfg.Path, logger)
	case StoreTypeFile:
		return OpenFile(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStoreType, cfg.Type)
	}
}

// NopStore discards records
type NopStore struct{}

func (NopStore) Write(context.Context, []Record) error { return nil }
func (NopStore) History(context.Context, string, string, string) ([]Record, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }
