package command

import (
	"strconv"
	"time"

	"github.com/mitchelldurbincs/TacticalCommander/internal/game/core"
	"github.com/mitchelldurbincs/TacticalCommander/internal/game/events"
	"github.com/rs/zerolog"
)

// Command is one registry entry. Everything except the status fields is fixed
// at creation.
type Command struct {
	ID          string
	Kind        Kind
	Pieces      []string
	Destination *core.Coordinate
	Radius      int
	Amount      int
	PieceType   core.PieceType
	Escorted    string
	IssuedTurn  int

	State     State
	Elapsed   int
	Estimated int
}

// Status returns the status report for the command
func (c *Command) Status() Status {
	return Status{CommandID: c.ID, State: c.State, Elapsed: c.Elapsed, Estimated: c.Estimated}
}

// Transition is one entry of the registry audit history
type Transition struct {
	Country   string
	CommandID string
	Kind      Kind
	From      State
	To        State
	Turn      int
	Elapsed   int
	Estimated int
	Reason    string
	Timestamp time.Time
}

// Registry is the process-wide, append-only table of commands. Ids are the
// decimal index of the entry and are never reused.
type Registry struct {
	commands []*Command
	history  []Transition

	turn      int
	matchID   string
	country   string
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewRegistry creates an empty registry that reports transitions to publisher.
// Command ids are only unique within one registry, so every transition carries
// the owning country.
func NewRegistry(matchID, country string, publisher events.Publisher, logger zerolog.Logger) *Registry {
	if publisher == nil {
		publisher = events.Discard
	}
	return &Registry{
		matchID:   matchID,
		country:   country,
		publisher: publisher,
		logger:    logger.With().Str("component", "command_registry").Str("country", country).Logger(),
	}
}

// Country returns the owner of the registry
func (r *Registry) Country() string { return r.country }

// SetTurn records the current turn for transition history
func (r *Registry) SetTurn(turn int) { r.turn = turn }

// Create appends a new in-progress command with elapsed 0 and returns its id
func (r *Registry) Create(spec Spec) string {
	id := strconv.Itoa(len(r.commands))
	var dest *core.Coordinate
	if spec.Destination != nil {
		d := *spec.Destination
		dest = &d
	}
	estimated := spec.Estimated
	if estimated < 0 {
		estimated = 0
	}
	cmd := &Command{
		ID:          id,
		Kind:        spec.Kind,
		Pieces:      append([]string(nil), spec.Pieces...),
		Destination: dest,
		Radius:      spec.Radius,
		Amount:      spec.Amount,
		PieceType:   spec.PieceType,
		Escorted:    spec.Escorted,
		IssuedTurn:  r.turn,
		State:       StateActive,
		Estimated:   estimated,
	}
	r.commands = append(r.commands, cmd)
	r.record(cmd, StateNone, events.TypeCommandIssued, "issued")

	r.logger.Info().
		Int("turn", r.turn).
		Str("command_id", id).
		Str("kind", string(spec.Kind)).
		Strs("pieces", cmd.Pieces).
		Int("estimated", estimated).
		Msg("Command created")
	return id
}

// Advance counts one more turn of progress. The remaining estimate saturates at
// zero. Terminal commands are left untouched.
func (r *Registry) Advance(id string) error {
	cmd, err := r.lookup(id)
	if err != nil {
		return err
	}
	if cmd.State.IsTerminal() {
		return nil
	}
	cmd.Elapsed++
	if cmd.Estimated > 0 {
		cmd.Estimated--
	}
	r.record(cmd, StateActive, events.TypeCommandAdvanced, "")
	return nil
}

// Succeed marks the command succeeded. It is a no-op on terminal commands.
func (r *Registry) Succeed(id, reason string) error {
	return r.finish(id, StateSucceeded, events.TypeCommandSucceeded, reason)
}

// Fail marks the command failed. It is a no-op on terminal commands.
func (r *Registry) Fail(id, reason string) error {
	return r.finish(id, StateFailed, events.TypeCommandFailed, reason)
}

func (r *Registry) finish(id string, to State, eventType, reason string) error {
	cmd, err := r.lookup(id)
	if err != nil {
		return err
	}
	if cmd.State.IsTerminal() {
		return nil
	}
	from := cmd.State
	cmd.State = to
	r.record(cmd, from, eventType, reason)

	r.logger.Info().
		Int("turn", r.turn).
		Str("command_id", id).
		Str("kind", string(cmd.Kind)).
		Str("status", to.String()).
		Int("elapsed", cmd.Elapsed).
		Str("reason", reason).
		Msg("Command finished")
	return nil
}

// StatusOf reports the status of a command
func (r *Registry) StatusOf(id string) (Status, error) {
	cmd, err := r.lookup(id)
	if err != nil {
		return Status{}, err
	}
	return cmd.Status(), nil
}

// IsActive reports whether id names an in-progress command
func (r *Registry) IsActive(id string) bool {
	cmd, err := r.lookup(id)
	return err == nil && cmd.State == StateActive
}

// Get returns a copy of the command entry
func (r *Registry) Get(id string) (Command, bool) {
	cmd, err := r.lookup(id)
	if err != nil {
		return Command{}, false
	}
	c := *cmd
	c.Pieces = append([]string(nil), cmd.Pieces...)
	return c, true
}

// Active returns copies of every in-progress command in creation order
func (r *Registry) Active() []Command {
	var out []Command
	for _, cmd := range r.commands {
		if cmd.State == StateActive {
			c, _ := r.Get(cmd.ID)
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of commands ever created
func (r *Registry) Len() int { return len(r.commands) }

// History returns the transitions recorded for id, oldest first. An empty id
// returns the whole history.
func (r *Registry) History(id string) []Transition {
	var out []Transition
	for _, t := range r.history {
		if id == "" || t.CommandID == id {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) lookup(id string) (*Command, error) {
	idx, err := strconv.Atoi(id)
	if err != nil || idx < 0 || idx >= len(r.commands) {
		return nil, core.ErrUnknownCommand
	}
	return r.commands[idx], nil
}

func (r *Registry) record(cmd *Command, from State, eventType, reason string) {
	t := Transition{
		Country:   r.country,
		CommandID: cmd.ID,
		Kind:      cmd.Kind,
		From:      from,
		To:        cmd.State,
		Turn:      r.turn,
		Elapsed:   cmd.Elapsed,
		Estimated: cmd.Estimated,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	r.history = append(r.history, t)

	ev := events.NewCommandEvent(eventType, r.matchID, cmd.ID, string(cmd.Kind), r.turn)
	ev.Country = r.country
	ev.FromStatus = from.String()
	ev.ToStatus = cmd.State.String()
	ev.Elapsed = cmd.Elapsed
	ev.Estimated = cmd.Estimated
	ev.Destination = cmd.Destination
	ev.Radius = cmd.Radius
	ev.Reason = reason
	r.publisher.Publish(ev)
}
