package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/internal/color"
	"github.com/tecu23/chess-server/pkg/clock"
	"github.com/tecu23/chess-server/pkg/events"
)

// Coordinator orchestrates sessions, clocks and event delivery. Every
// state-changing operation runs as one critical section under the target
// session's lock; clock ticks re-enter through Run under the same
// discipline.
type Coordinator struct {
	store     *Store
	clocks    *clock.Engine
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewCoordinator wires the coordinator to its collaborators.
func NewCoordinator(
	store *Store,
	clocks *clock.Engine,
	publisher *events.Publisher,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		store:     store,
		clocks:    clocks,
		publisher: publisher,
		logger:    logger,
	}
}

// Run consumes the clock event stream until ctx is cancelled. Time-expiry
// is transcribed into session state here; periodic ticks are republished
// for the delivery layer.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.clocks.Events():
			switch ev.Type {
			case clock.EventTimeUp:
				c.handleTimeUp(ev)
			case clock.EventTick:
				c.publisher.Publish(events.Event{
					Type:   events.EventClockUpdated,
					GameID: ev.GameID.String(),
					Payload: events.ClockUpdatePayload{
						WhiteTime:    ev.White,
						BlackTime:    ev.Black,
						ActivePlayer: string(ev.Active),
					},
				})
			}
		}
	}
}

// Shutdown cancels every running countdown.
func (c *Coordinator) Shutdown() {
	c.clocks.Shutdown()
	c.logger.Info("coordinator shut down", zap.Int("sessions", c.store.Count()))
}

// Create starts a new game. The session begins Waiting when no black player
// is given, Active otherwise; with a time control the white clock starts as
// soon as both players are seated.
func (c *Coordinator) Create(white Player, black *Player, tc *TimeControl) (Snapshot, error) {
	if err := ValidatePlayer(white); err != nil {
		return Snapshot{}, err
	}
	if black != nil {
		if err := ValidatePlayer(*black); err != nil {
			return Snapshot{}, err
		}
	}
	if err := ValidateTimeControl(tc); err != nil {
		return Snapshot{}, err
	}

	if white.ID == "" {
		white.ID = uuid.NewString()
	}
	if black != nil && black.ID == "" {
		black.ID = uuid.NewString()
	}

	s := newSession(&white, black, tc)
	c.store.Save(s)

	if tc != nil {
		c.clocks.Create(s.ID, clock.TimeControl{
			InitialSeconds:   tc.InitialTime,
			IncrementSeconds: tc.Increment,
		})
		if black != nil {
			c.clocks.Start(s.ID, color.White)
		}
	}

	c.logger.Info("created game session",
		zap.String("game_id", s.ID.String()),
		zap.String("status", string(s.Status)))

	c.publisher.Publish(events.Event{
		Type:   events.EventSessionCreated,
		GameID: s.ID.String(),
	})

	return s.Snapshot(), nil
}

// Join seats the second player and activates the session, starting white's
// clock when a time control exists.
func (c *Coordinator) Join(id uuid.UUID, player Player) (Snapshot, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrNotFound(id.String())
	}

	if err := ValidatePlayer(player); err != nil {
		return Snapshot{}, err
	}
	if player.ID == "" {
		player.ID = uuid.NewString()
	}

	s.mu.Lock()
	if s.Black != nil {
		s.mu.Unlock()
		return Snapshot{}, ErrConflict("game is already full")
	}
	if s.Status != StatusWaiting {
		status := string(s.Status)
		s.mu.Unlock()
		return Snapshot{}, ErrInvalidState("game is not waiting for players", status)
	}

	s.Black = &player
	s.Status = StatusActive
	s.UpdatedAt = time.Now().UTC()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.TimeControl != nil {
		c.clocks.Start(id, color.White)
	}

	c.logger.Info("player joined game",
		zap.String("game_id", id.String()),
		zap.String("player", player.Username))

	return snap, nil
}

// Move applies a move to an active session: legality check, notation,
// position commit, ledger append, redo-buffer clear, turn flip, terminal
// check and clock switch, all under the session lock.
func (c *Coordinator) Move(id uuid.UUID, from, to, promotion string) (Snapshot, MoveRecord, error) {
	from, to, promotion, err := ValidateMoveInput(from, to, promotion)
	if err != nil {
		return Snapshot{}, MoveRecord{}, err
	}

	s, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, MoveRecord{}, ErrNotFound(id.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusActive {
		return Snapshot{}, MoveRecord{}, ErrInvalidState(
			fmt.Sprintf("game is not active (current status: %s)", s.Status), string(s.Status))
	}

	record, err := c.applyLocked(s, from, to, promotion, "", true)
	if err != nil {
		return Snapshot{}, MoveRecord{}, err
	}
	s.redo = s.redo[:0]

	return s.snapshotLocked(), record, nil
}

// Undo reverts the last applied move, pushing it onto the redo buffer. A
// finished session reopens. Clock time is deliberately not restored.
func (c *Coordinator) Undo(id uuid.UUID) (Snapshot, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrNotFound(id.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ledger) == 0 {
		return Snapshot{}, ErrInvalidState("no moves to undo", string(s.Status))
	}

	if err := s.board.UndoLast(); err != nil {
		return Snapshot{}, ErrInvalidState(err.Error(), string(s.Status))
	}

	last := s.ledger[len(s.ledger)-1]
	s.ledger = s.ledger[:len(s.ledger)-1]
	s.redo = append(s.redo, last)

	s.Turn = s.board.Turn()
	s.UpdatedAt = time.Now().UTC()

	if s.Status == StatusFinished {
		s.Status = StatusActive
		s.Result = ResultOngoing
	}

	c.logger.Info("move undone",
		zap.String("game_id", id.String()),
		zap.String("san", last.SAN),
		zap.Int("ledger_len", len(s.ledger)))

	return s.snapshotLocked(), nil
}

// Redo replays the top of the redo buffer through the same pipeline as
// Move. The promotion piece comes from the stored record. Like Undo, redo
// leaves the clock alone: no switch, no increment.
func (c *Coordinator) Redo(id uuid.UUID) (Snapshot, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, ErrNotFound(id.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return Snapshot{}, ErrInvalidState("no moves to redo", string(s.Status))
	}

	top := s.redo[len(s.redo)-1]
	record, err := c.applyLocked(s, top.From, top.To, top.Promotion, top.SAN, false)
	if err != nil {
		return Snapshot{}, err
	}
	s.redo = s.redo[:len(s.redo)-1]

	c.logger.Info("move redone",
		zap.String("game_id", id.String()),
		zap.String("san", record.SAN))

	return s.snapshotLocked(), nil
}

// applyLocked runs the shared commit pipeline for Move and Redo. Callers
// hold s.mu. A non-empty knownSAN skips notation generation; driveClock is
// false for redo, which replays the position without touching the clock.
func (c *Coordinator) applyLocked(s *Session, from, to, promotion, knownSAN string, driveClock bool) (MoveRecord, error) {
	if err := s.board.Validate(from, to, promotion); err != nil {
		return MoveRecord{}, ErrInvalidMove(err.Error())
	}

	san := knownSAN
	if san == "" {
		// Notation needs the pre-move position for disambiguation.
		var err error
		san, err = s.board.SAN(from, to, promotion)
		if err != nil {
			return MoveRecord{}, ErrInvalidMove(err.Error())
		}
	}

	if err := s.board.Push(from, to, promotion); err != nil {
		return MoveRecord{}, ErrInvalidMove(err.Error())
	}

	record := MoveRecord{
		From:         from,
		To:           to,
		Promotion:    promotion,
		FENAfterMove: s.board.FEN(),
		Timestamp:    time.Now().UTC(),
		MoveNumber:   len(s.ledger) + 1,
		SAN:          san,
	}
	s.ledger = append(s.ledger, record)

	mover := s.Turn
	s.Turn = s.board.Turn()
	s.UpdatedAt = time.Now().UTC()

	// Checkmate outranks stalemate outranks the other draw conditions.
	switch {
	case s.board.IsCheckmate():
		s.Status = StatusFinished
		s.Result = Win(mover)
	case s.board.IsStalemate():
		s.Status = StatusFinished
		s.Result = ResultStalemate
	case s.board.IsInsufficientMaterial() || s.board.IsDrawByRule():
		s.Status = StatusFinished
		s.Result = ResultDraw
	}

	if driveClock && s.TimeControl != nil {
		if s.Status == StatusFinished {
			c.clocks.Pause(s.ID)
		} else {
			c.clocks.Switch(s.ID, s.Turn)
		}
	}

	c.logger.Info("processed move",
		zap.String("game_id", s.ID.String()),
		zap.String("san", san),
		zap.String("new_turn", string(s.Turn)))

	return record, nil
}

// StateInfo is the full snapshot handed to clients: session, legal moves
// and position flags, taken atomically.
type StateInfo struct {
	Game        Snapshot `json:"game"`
	LegalMoves  []string `json:"legal_moves"`
	IsCheck     bool     `json:"is_check"`
	IsCheckmate bool     `json:"is_checkmate"`
	IsStalemate bool     `json:"is_stalemate"`
	IsDraw      bool     `json:"is_draw"`
}

// State returns the full game state.
func (c *Coordinator) State(id uuid.UUID) (StateInfo, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return StateInfo{}, ErrNotFound(id.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return StateInfo{
		Game:        s.snapshotLocked(),
		LegalMoves:  s.board.LegalMoves(),
		IsCheck:     s.board.IsCheck(),
		IsCheckmate: s.board.IsCheckmate(),
		IsStalemate: s.board.IsStalemate(),
		IsDraw:      s.board.IsDraw(),
	}, nil
}

// SessionCount returns the number of live sessions.
func (c *Coordinator) SessionCount() int {
	return c.store.Count()
}

// ClockCount returns the number of registered clocks.
func (c *Coordinator) ClockCount() int {
	return c.clocks.Count()
}

// Session returns the live session, for identity checks.
func (c *Coordinator) Session(id uuid.UUID) (*Session, bool) {
	return c.store.Get(id)
}

// Sessions lists every session snapshot.
func (c *Coordinator) Sessions() []Snapshot {
	live := c.store.List()
	out := make([]Snapshot, 0, len(live))
	for _, s := range live {
		out = append(out, s.Snapshot())
	}
	return out
}

// LegalMoves is an advisory query: empty for unknown sessions.
func (c *Coordinator) LegalMoves(id uuid.UUID) []string {
	s, ok := c.store.Get(id)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.LegalMoves()
}

// IsCheck is an advisory query: false for unknown sessions.
func (c *Coordinator) IsCheck(id uuid.UUID) bool {
	s, ok := c.store.Get(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.IsCheck()
}

// IsCheckmate is an advisory query: false for unknown sessions.
func (c *Coordinator) IsCheckmate(id uuid.UUID) bool {
	s, ok := c.store.Get(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.IsCheckmate()
}

// IsStalemate is an advisory query: false for unknown sessions.
func (c *Coordinator) IsStalemate(id uuid.UUID) bool {
	s, ok := c.store.Get(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.IsStalemate()
}

// IsDraw is an advisory query: false for unknown sessions.
func (c *Coordinator) IsDraw(id uuid.UUID) bool {
	s, ok := c.store.Get(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.IsDraw()
}

// ClockState returns the live clock snapshot.
func (c *Coordinator) ClockState(id uuid.UUID) (clock.Snapshot, bool) {
	return c.clocks.Remaining(id)
}

// PauseClock freezes the session's clock.
func (c *Coordinator) PauseClock(id uuid.UUID) error {
	if !c.clocks.Pause(id) {
		return ErrNotFound(id.String())
	}
	return nil
}

// ResumeClock restarts the countdown for the given color.
func (c *Coordinator) ResumeClock(id uuid.UUID, col color.Color) error {
	if !col.Valid() {
		return ErrValidation("player must be 'white' or 'black'", "player")
	}
	if !c.clocks.Start(id, col) {
		return ErrNotFound(id.String())
	}
	return nil
}

// Delete tears down the session: clock first, so no tick can fire against a
// missing session, then the store entry. Connected clients are dropped by
// the delivery layer through the terminated event.
func (c *Coordinator) Delete(id uuid.UUID) error {
	c.clocks.Remove(id)
	if !c.store.Delete(id) {
		return ErrNotFound(id.String())
	}

	c.publisher.Publish(events.Event{
		Type:   events.EventSessionTerminated,
		GameID: id.String(),
	})
	return nil
}

// handleTimeUp transcribes a clock expiry into session state under the
// session lock, then reports the outcome.
func (c *Coordinator) handleTimeUp(ev clock.Event) {
	s, ok := c.store.Get(ev.GameID)
	if !ok {
		// Session deleted while the tick was in flight.
		return
	}

	s.mu.Lock()
	if s.Status != StatusActive {
		s.mu.Unlock()
		return
	}
	s.Status = StatusFinished
	s.Result = Win(ev.Expired.Opp())
	s.UpdatedAt = time.Now().UTC()
	result := s.Result
	s.mu.Unlock()

	c.clocks.Pause(ev.GameID)

	c.logger.Info("player time expired",
		zap.String("game_id", ev.GameID.String()),
		zap.String("color", string(ev.Expired)),
		zap.String("result", string(result)))

	c.publisher.Publish(events.Event{
		Type:   events.EventTimeUp,
		GameID: ev.GameID.String(),
		Payload: events.TimeUpPayload{
			Player: string(ev.Expired),
			Result: string(result),
		},
	})
}
