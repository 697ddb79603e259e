// Package game implements the session core: the session store, the move
// ledger with undo/redo, and the coordinator that ties position, clock and
// event delivery into one atomic step per operation.
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tecu23/chess-server/internal/color"
	"github.com/tecu23/chess-server/pkg/rules"
)

// Status is the lifecycle state of a session.
type Status string

// Session statuses.
const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Result is the outcome of a session.
type Result string

// Session results.
const (
	ResultOngoing   Result = "ongoing"
	ResultWhiteWins Result = "white_wins"
	ResultBlackWins Result = "black_wins"
	ResultDraw      Result = "draw"
	ResultStalemate Result = "stalemate"
)

// Win returns the winning result for the given color.
func Win(c color.Color) Result {
	if c == color.White {
		return ResultWhiteWins
	}
	return ResultBlackWins
}

// Player identifies one participant.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// TimeControl are the requested clock settings in seconds.
type TimeControl struct {
	InitialTime int `json:"initial_time"`
	Increment   int `json:"increment"`
}

// MoveRecord is one entry of the move ledger.
type MoveRecord struct {
	From         string    `json:"from_square"`
	To           string    `json:"to_square"`
	Promotion    string    `json:"promotion,omitempty"`
	FENAfterMove string    `json:"fen_after_move"`
	Timestamp    time.Time `json:"timestamp"`
	MoveNumber   int       `json:"move_number"`
	SAN          string    `json:"san_notation"`
}

// Session is one chess game: players, position, ledger and status. The
// mutex is the per-session critical section of every coordinator operation;
// nothing outside this package touches the mutable fields directly.
type Session struct {
	ID          uuid.UUID
	White       *Player
	Black       *Player
	Status      Status
	Result      Result
	Turn        color.Color
	TimeControl *TimeControl
	CreatedAt   time.Time
	UpdatedAt   time.Time

	board  *rules.Board
	ledger []MoveRecord
	redo   []MoveRecord

	mu sync.Mutex
}

func newSession(white *Player, black *Player, tc *TimeControl) *Session {
	now := time.Now().UTC()
	status := StatusWaiting
	if black != nil {
		status = StatusActive
	}

	return &Session{
		ID:          uuid.New(),
		White:       white,
		Black:       black,
		Status:      status,
		Result:      ResultOngoing,
		Turn:        color.White,
		TimeControl: tc,
		CreatedAt:   now,
		UpdatedAt:   now,
		board:       rules.NewBoard(),
	}
}

// Snapshot is an immutable copy of a session, safe to hand to transports
// after the session lock is released.
type Snapshot struct {
	ID          string       `json:"id"`
	White       *Player      `json:"white_player"`
	Black       *Player      `json:"black_player"`
	FEN         string       `json:"current_fen"`
	Moves       []MoveRecord `json:"move_history"`
	PGNHistory  []string     `json:"pgn_history"`
	TimeControl *TimeControl `json:"time_control"`
	Status      Status       `json:"status"`
	Result      Result       `json:"result"`
	Turn        color.Color  `json:"current_turn"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// snapshotLocked copies the session. Callers hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	moves := make([]MoveRecord, len(s.ledger))
	copy(moves, s.ledger)

	sans := make([]string, 0, len(s.ledger))
	for _, m := range s.ledger {
		sans = append(sans, m.SAN)
	}

	return Snapshot{
		ID:          s.ID.String(),
		White:       s.White,
		Black:       s.Black,
		FEN:         s.board.FEN(),
		Moves:       moves,
		PGNHistory:  sans,
		TimeControl: s.TimeControl,
		Status:      s.Status,
		Result:      s.Result,
		Turn:        s.Turn,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Snapshot returns a copy of the session taken under its lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TurnColor returns the side to move.
func (s *Session) TurnColor() color.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Turn
}

// PlayerColor returns the color the given player id occupies, or "" when
// the id is not seated in this session.
func (s *Session) PlayerColor(playerID string) color.Color {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.White != nil && s.White.ID == playerID {
		return color.White
	}
	if s.Black != nil && s.Black.ID == playerID {
		return color.Black
	}
	return ""
}
