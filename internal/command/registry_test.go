package command

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
)

func newTestRegistry() (*Registry, *events.EventBus) {
	bus := events.NewEventBusWithLogger(zerolog.Nop())
	return NewRegistry("test-match", "blue", bus, zerolog.Nop()), bus
}

func TestRegistry_Create_AssignsSequentialIDs(t *testing.T) {
	reg, _ := newTestRegistry()

	ids := []string{
		reg.Create(Spec{Kind: KindAttack}),
		reg.Create(Spec{Kind: KindDefend}),
		reg.Create(Spec{Kind: KindBuild}),
	}

	assert.Equal(t, []string{"0", "1", "2"}, ids)
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_Create_StartsInProgress(t *testing.T) {
	reg, _ := newTestRegistry()
	dest := core.Coordinate{X: 2, Y: 3}

	id := reg.Create(Spec{Kind: KindAttack, Pieces: []string{"p1"}, Destination: &dest, Estimated: 4})

	status, err := reg.StatusOf(id)
	require.NoError(t, err)
	assert.True(t, status.IsInProgress())
	assert.Equal(t, 0, status.Elapsed)
	assert.Equal(t, 4, status.Estimated)

	// The registry keeps its own copy of the destination
	dest.X = 9
	cmd, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 2, Y: 3}, *cmd.Destination)
}

func TestRegistry_Advance_CountsAndSaturates(t *testing.T) {
	reg, _ := newTestRegistry()
	id := reg.Create(Spec{Kind: KindAttack, Estimated: 2})

	expected := []struct{ elapsed, estimated int }{
		{1, 1},
		{2, 0},
		{3, 0},
		{4, 0},
	}
	for _, want := range expected {
		require.NoError(t, reg.Advance(id))
		status, err := reg.StatusOf(id)
		require.NoError(t, err)
		assert.Equal(t, want.elapsed, status.Elapsed)
		assert.Equal(t, want.estimated, status.Estimated)
	}
}

func TestRegistry_TerminalCommandsNeverMutate(t *testing.T) {
	tests := []struct {
		name   string
		finish func(r *Registry, id string) error
		state  State
	}{
		{"succeeded", func(r *Registry, id string) error { return r.Succeed(id, "done") }, StateSucceeded},
		{"failed", func(r *Registry, id string) error { return r.Fail(id, "no target") }, StateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry()
			id := reg.Create(Spec{Kind: KindAttack, Estimated: 5})
			require.NoError(t, reg.Advance(id))
			require.NoError(t, tt.finish(reg, id))

			before, _ := reg.StatusOf(id)

			require.NoError(t, reg.Advance(id))
			require.NoError(t, reg.Succeed(id, "again"))
			require.NoError(t, reg.Fail(id, "again"))

			after, _ := reg.StatusOf(id)
			assert.Equal(t, before, after)
			assert.Equal(t, tt.state, after.State)
		})
	}
}

func TestRegistry_UnknownCommand(t *testing.T) {
	reg, _ := newTestRegistry()
	reg.Create(Spec{Kind: KindAttack})

	for _, id := range []string{"1", "-1", "abc", ""} {
		_, err := reg.StatusOf(id)
		assert.ErrorIs(t, err, core.ErrUnknownCommand, "id %q", id)
		assert.ErrorIs(t, reg.Advance(id), core.ErrUnknownCommand)
		assert.False(t, reg.IsActive(id))
	}
}

func TestRegistry_Active(t *testing.T) {
	reg, _ := newTestRegistry()
	a := reg.Create(Spec{Kind: KindAttack})
	b := reg.Create(Spec{Kind: KindDefend})
	c := reg.Create(Spec{Kind: KindBuild})
	require.NoError(t, reg.Fail(b, "superseded"))

	active := reg.Active()
	require.Len(t, active, 2)
	assert.Equal(t, a, active[0].ID)
	assert.Equal(t, c, active[1].ID)
}

func TestRegistry_HistoryAndEvents(t *testing.T) {
	reg, bus := newTestRegistry()

	var seen []string
	for _, typ := range []string{events.TypeCommandIssued, events.TypeCommandAdvanced, events.TypeCommandSucceeded} {
		bus.SubscribeFunc(typ, func(e events.Event) { seen = append(seen, e.Type()) })
	}

	reg.SetTurn(7)
	id := reg.Create(Spec{Kind: KindCollect, Amount: 20})
	reg.SetTurn(8)
	require.NoError(t, reg.Advance(id))
	require.NoError(t, reg.Succeed(id, "collected"))

	history := reg.History(id)
	require.Len(t, history, 3)
	assert.Equal(t, 7, history[0].Turn)
	assert.Equal(t, StateNone, history[0].From)
	assert.Equal(t, StateActive, history[0].To)
	assert.Equal(t, "blue", history[0].Country)
	assert.Equal(t, StateActive, history[1].To)
	assert.Equal(t, StateActive, history[2].From)
	assert.Equal(t, StateSucceeded, history[2].To)
	assert.Equal(t, "collected", history[2].Reason)

	assert.Equal(t, []string{events.TypeCommandIssued, events.TypeCommandAdvanced, events.TypeCommandSucceeded}, seen)
	assert.Len(t, reg.History(""), 3)
}

func TestRegistry_EventsCarryOwnerAndCreationState(t *testing.T) {
	reg, bus := newTestRegistry()
	var got []*events.CommandEvent
	bus.SubscribeFunc(events.TypeCommandIssued, func(e events.Event) { got = append(got, e.(*events.CommandEvent)) })

	reg.Create(Spec{Kind: KindAttack})

	require.Len(t, got, 1)
	assert.Equal(t, "blue", got[0].Country)
	assert.Equal(t, "none", got[0].FromStatus)
	assert.Equal(t, "in_progress", got[0].ToStatus)
	assert.Equal(t, "blue", reg.Country())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "3 in_progress (2/5)", Status{CommandID: "3", State: StateActive, Elapsed: 2, Estimated: 3}.String())
	assert.Equal(t, "3 failed", Status{CommandID: "3", State: StateFailed}.String())
}
