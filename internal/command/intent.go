package command

import (
	"sort"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
)

// Intent is the work a piece is currently executing on behalf of a command
type Intent struct {
	PieceID     string
	CommandID   string
	Kind        Kind
	Destination *core.Coordinate
	Radius      int

	// KindCollect, KindBuild
	Amount    int
	PieceType core.PieceType

	// KindEscort
	Escorted string
}

// HasDestination reports whether targeting produced a destination
func (i Intent) HasDestination() bool { return i.Destination != nil }

// IntentTable maps piece id to its current intent for one role group.
// Entries persist across turns until the command ends or the piece vanishes.
type IntentTable struct {
	name    string
	entries map[string]Intent
}

// NewIntentTable creates an empty table
func NewIntentTable(name string) *IntentTable {
	return &IntentTable{name: name, entries: make(map[string]Intent)}
}

// Name returns the role group name of the table
func (t *IntentTable) Name() string { return t.name }

// Put records intent, replacing whatever the piece was doing before. The
// previous command id is returned so the caller can supersede it.
func (t *IntentTable) Put(intent Intent) (previous string, replaced bool) {
	old, ok := t.entries[intent.PieceID]
	t.entries[intent.PieceID] = intent
	if ok {
		return old.CommandID, true
	}
	return "", false
}

// Get returns the intent of a piece
func (t *IntentTable) Get(pieceID string) (Intent, bool) {
	i, ok := t.entries[pieceID]
	return i, ok
}

// Update replaces the stored intent of a piece that is already tracked
func (t *IntentTable) Update(intent Intent) {
	if _, ok := t.entries[intent.PieceID]; ok {
		t.entries[intent.PieceID] = intent
	}
}

// Drop removes the piece from the table
func (t *IntentTable) Drop(pieceID string) {
	delete(t.entries, pieceID)
}

// Has reports whether the piece has an entry
func (t *IntentTable) Has(pieceID string) bool {
	_, ok := t.entries[pieceID]
	return ok
}

// Len returns the number of tracked pieces
func (t *IntentTable) Len() int { return len(t.entries) }

// PieceIDs returns the tracked piece ids in sorted order
func (t *IntentTable) PieceIDs() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PiecesOf returns the sorted ids of pieces executing commandID
func (t *IntentTable) PiecesOf(commandID string) []string {
	var ids []string
	for id, i := range t.entries {
		if i.CommandID == commandID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Assignments maps each tracked piece to its command id
func (t *IntentTable) Assignments() map[string]string {
	out := make(map[string]string, len(t.entries))
	for id, i := range t.entries {
		out[id] = i.CommandID
	}
	return out
}

// Intents returns every entry sorted by piece id
func (t *IntentTable) Intents() []Intent {
	out := make([]Intent, 0, len(t.entries))
	for _, id := range t.PieceIDs() {
		out = append(out, t.entries[id])
	}
	return out
}
