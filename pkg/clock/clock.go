// Package clock implements the per-game chess clocks. Each game owns a pair
// of countdown timers; while one color is running, an autonomous goroutine
// ticks it down and reports through a single event stream tagged with the
// game id.
package clock

// TODO: Handle delay and Bronstein timing methods

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/internal/color"
)

// TimeControl defines the time settings for a game.
type TimeControl struct {
	InitialSeconds   int // starting time per player
	IncrementSeconds int // added to the mover's clock after each move
}

// EventType distinguishes the two notifications a clock emits.
type EventType string

// Clock event types.
const (
	EventTick   EventType = "tick"
	EventTimeUp EventType = "time_up"
)

// Event is a single clock notification.
type Event struct {
	Type    EventType
	GameID  uuid.UUID
	White   float64 // live remaining seconds
	Black   float64
	Active  color.Color // running color, empty when idle
	Expired color.Color // set on time_up events
}

// Snapshot is a point-in-time read of one game's clock.
type Snapshot struct {
	White   float64
	Black   float64
	Active  color.Color
	Expired bool
}

// gameClock holds one game's pair of timers. The mutex guards every field;
// the cancel channel identifies the currently running countdown so a stale
// goroutine can detect it has been superseded.
type gameClock struct {
	mu        sync.Mutex
	tc        TimeControl
	white     float64
	black     float64
	active    color.Color
	startedAt time.Time
	cancel    chan struct{}
	expired   bool
}

// Engine owns every game clock in the process.
type Engine struct {
	mu     sync.RWMutex
	clocks map[uuid.UUID]*gameClock

	events chan Event
	logger *zap.Logger

	tickInterval time.Duration
	wg           sync.WaitGroup
}

// NewEngine creates the clock engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		clocks:       make(map[uuid.UUID]*gameClock),
		events:       make(chan Event, 64),
		logger:       logger,
		tickInterval: time.Second,
	}
}

// Events returns the stream of tick and time-up notifications.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Create registers a clock for the game with both sides at the initial time.
func (e *Engine) Create(gameID uuid.UUID, tc TimeControl) {
	c := &gameClock{
		tc:    tc,
		white: float64(tc.InitialSeconds),
		black: float64(tc.InitialSeconds),
	}

	e.mu.Lock()
	e.clocks[gameID] = c
	e.mu.Unlock()
}

// Start begins the countdown for the given color, freezing any previously
// running side first. Returns false when the game has no clock.
func (e *Engine) Start(gameID uuid.UUID, col color.Color) bool {
	c := e.lookup(gameID)
	if c == nil {
		return false
	}

	c.mu.Lock()
	c.freezeLocked(0)
	e.startLocked(gameID, c, col)
	c.mu.Unlock()
	return true
}

// Pause freezes the running side and cancels its countdown. Cancellation is
// observable before Pause returns: a tick racing this call re-checks the
// cancel channel identity under the clock lock and stays silent.
func (e *Engine) Pause(gameID uuid.UUID) bool {
	c := e.lookup(gameID)
	if c == nil {
		return false
	}

	c.mu.Lock()
	c.freezeLocked(0)
	c.mu.Unlock()
	return true
}

// Switch credits the mover's increment, freezes their clock and starts the
// opponent's. The increment goes to the side that just moved, never the one
// about to move.
func (e *Engine) Switch(gameID uuid.UUID, next color.Color) bool {
	c := e.lookup(gameID)
	if c == nil {
		return false
	}

	c.mu.Lock()
	c.freezeLocked(float64(c.tc.IncrementSeconds))
	e.startLocked(gameID, c, next)
	c.mu.Unlock()
	return true
}

// Remaining returns a live snapshot of the clock, or ok=false when the game
// has none.
func (e *Engine) Remaining(gameID uuid.UUID) (Snapshot, bool) {
	c := e.lookup(gameID)
	if c == nil {
		return Snapshot{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(), true
}

// Remove cancels any running countdown and drops the clock. Safe to call for
// unknown games.
func (e *Engine) Remove(gameID uuid.UUID) {
	e.mu.Lock()
	c := e.clocks[gameID]
	delete(e.clocks, gameID)
	e.mu.Unlock()

	if c != nil {
		c.mu.Lock()
		c.freezeLocked(0)
		c.mu.Unlock()
	}
}

// Count returns the number of registered clocks.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clocks)
}

// Shutdown cancels every running countdown and waits for the tick
// goroutines to exit.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	ids := make([]uuid.UUID, 0, len(e.clocks))
	for id := range e.clocks {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.Remove(id)
	}
	e.wg.Wait()
}

func (e *Engine) lookup(gameID uuid.UUID) *gameClock {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clocks[gameID]
}

// freezeLocked stops the running side, storing its live remaining time plus
// any bonus, and cancels the countdown. No-op when the clock is idle.
func (c *gameClock) freezeLocked(bonus float64) {
	if c.active != "" {
		elapsed := time.Since(c.startedAt).Seconds()
		if c.active == color.White {
			c.white = max(0, c.white-elapsed) + bonus
		} else {
			c.black = max(0, c.black-elapsed) + bonus
		}
	}

	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
	}
	c.active = ""
	c.startedAt = time.Time{}
}

// startLocked records the new running side and spawns its countdown.
func (e *Engine) startLocked(gameID uuid.UUID, c *gameClock, col color.Color) {
	c.active = col
	c.startedAt = time.Now()
	c.expired = false
	c.cancel = make(chan struct{})

	e.wg.Add(1)
	go e.countdown(gameID, c, col, c.cancel)
}

// snapshotLocked computes both live remaining times.
func (c *gameClock) snapshotLocked() Snapshot {
	s := Snapshot{White: c.white, Black: c.black, Active: c.active, Expired: c.expired}
	if c.active != "" {
		elapsed := time.Since(c.startedAt).Seconds()
		if c.active == color.White {
			s.White = max(0, s.White-elapsed)
		} else {
			s.Black = max(0, s.Black-elapsed)
		}
	}
	return s
}

// countdown ticks one running side until it expires or is cancelled. The
// cancel channel passed in identifies this particular run: if the clock has
// been paused, switched or removed since, the stored channel no longer
// matches and the goroutine exits without emitting anything.
func (e *Engine) countdown(gameID uuid.UUID, c *gameClock, col color.Color, cancel chan struct{}) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.cancel != cancel || c.active != col {
			c.mu.Unlock()
			return
		}

		snap := c.snapshotLocked()
		remaining := snap.White
		if col == color.Black {
			remaining = snap.Black
		}

		// Emits happen under c.mu: once Pause, Switch or Remove returns,
		// no event from the cancelled run can surface. emit never blocks,
		// so holding the lock across it is safe.
		if remaining <= 0 {
			// Freeze at zero and mark expired before anyone else can
			// observe the clock.
			if col == color.White {
				c.white = 0
			} else {
				c.black = 0
			}
			c.active = ""
			c.startedAt = time.Time{}
			c.cancel = nil
			c.expired = true
			snap = c.snapshotLocked()
			e.emit(Event{
				Type:    EventTimeUp,
				GameID:  gameID,
				White:   snap.White,
				Black:   snap.Black,
				Expired: col,
			})
			c.mu.Unlock()
			return
		}

		// Update every second inside the last minute, every ten seconds
		// otherwise.
		if remaining <= 60 || int(remaining)%10 == 0 {
			e.emit(Event{
				Type:   EventTick,
				GameID: gameID,
				White:  snap.White,
				Black:  snap.Black,
				Active: col,
			})
		}
		c.mu.Unlock()
	}
}

// emit is best-effort: a full stream drops the event rather than stalling
// the countdown.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.logger.Warn("clock event dropped, stream full",
			zap.String("game_id", ev.GameID.String()),
			zap.String("type", string(ev.Type)))
	}
}

// FormatClockTime formats remaining seconds as MM:SS, or HH:MM:SS for times
// of an hour or more.
func FormatClockTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
