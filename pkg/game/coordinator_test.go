package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/chess-server/internal/color"
	"github.com/tecu23/chess-server/pkg/clock"
	"github.com/tecu23/chess-server/pkg/events"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *events.Publisher) {
	t.Helper()
	logger := zap.NewNop()
	publisher := events.NewPublisher()
	clocks := clock.NewEngine(logger)
	c := NewCoordinator(NewStore(logger), clocks, publisher, logger)
	t.Cleanup(c.Shutdown)
	return c, publisher
}

func alice() Player { return Player{Username: "alice", Rating: 1500} }
func bob() *Player  { return &Player{Username: "bob", Rating: 1400} }

func createActive(t *testing.T, c *Coordinator, tc *TimeControl) uuid.UUID {
	t.Helper()
	snap, err := c.Create(alice(), bob(), tc)
	require.NoError(t, err)
	id, err := uuid.Parse(snap.ID)
	require.NoError(t, err)
	return id
}

func TestCreateWaitingWithoutBlack(t *testing.T) {
	c, _ := newTestCoordinator(t)

	snap, err := c.Create(alice(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusWaiting, snap.Status)
	assert.Equal(t, ResultOngoing, snap.Result)
	assert.Equal(t, color.White, snap.Turn)
	assert.NotNil(t, snap.White)
	assert.Nil(t, snap.Black)
	assert.NotEmpty(t, snap.White.ID)
	assert.Equal(t, 1, c.SessionCount())
	assert.Equal(t, 0, c.ClockCount())
}

func TestCreateActiveWithBothPlayers(t *testing.T) {
	c, _ := newTestCoordinator(t)

	snap, err := c.Create(alice(), bob(), &TimeControl{InitialTime: 300, Increment: 2})
	require.NoError(t, err)

	assert.Equal(t, StatusActive, snap.Status)
	assert.Equal(t, 1, c.ClockCount())

	id, _ := uuid.Parse(snap.ID)
	cs, ok := c.ClockState(id)
	require.True(t, ok)
	assert.Equal(t, color.White, cs.Active)
}

func TestCreateValidatesInput(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Create(Player{Username: "x"}, nil, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = c.Create(alice(), &Player{Username: "??"}, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = c.Create(alice(), bob(), &TimeControl{InitialTime: -1})
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Equal(t, 0, c.SessionCount())
}

func TestJoinActivatesWaitingGame(t *testing.T) {
	c, _ := newTestCoordinator(t)

	snap, err := c.Create(alice(), nil, &TimeControl{InitialTime: 300})
	require.NoError(t, err)
	id, _ := uuid.Parse(snap.ID)

	// The clock exists but nothing runs until the opponent arrives.
	cs, ok := c.ClockState(id)
	require.True(t, ok)
	assert.Empty(t, cs.Active)

	joined, err := c.Join(id, *bob())
	require.NoError(t, err)
	assert.Equal(t, StatusActive, joined.Status)
	require.NotNil(t, joined.Black)
	assert.Equal(t, "bob", joined.Black.Username)

	cs, ok = c.ClockState(id)
	require.True(t, ok)
	assert.Equal(t, color.White, cs.Active)
}

func TestJoinErrors(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.Join(uuid.New(), *bob())
	assert.Equal(t, KindNotFound, KindOf(err))

	id := createActive(t, c, nil)
	_, err = c.Join(id, Player{Username: "carol", Rating: 1200})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestMovePipeline(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	snap, record, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)

	assert.Equal(t, "e4", record.SAN)
	assert.Equal(t, 1, record.MoveNumber)
	assert.Equal(t, color.Black, snap.Turn)
	require.Len(t, snap.Moves, 1)
	assert.Equal(t, "e2", snap.Moves[0].From)
	assert.Equal(t, snap.FEN, snap.Moves[0].FENAfterMove)
	assert.Equal(t, []string{"e4"}, snap.PGNHistory)
}

func TestMoveErrors(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, _, err := c.Move(uuid.New(), "e2", "e4", "")
	assert.Equal(t, KindNotFound, KindOf(err))

	id := createActive(t, c, nil)

	_, _, err = c.Move(id, "e2", "x9", "")
	assert.Equal(t, KindValidation, KindOf(err))

	_, _, err = c.Move(id, "e2", "e2", "")
	assert.Equal(t, KindInvalidMove, KindOf(err))

	_, _, err = c.Move(id, "e7", "e5", "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidMove, KindOf(err))
	assert.Contains(t, err.Error(), "black piece")
}

func TestMoveDiagnosticAfterPieceLeft(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	_, _, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)
	_, _, err = c.Move(id, "e7", "e5", "")
	require.NoError(t, err)

	// The pawn moved away two plies ago.
	_, _, err = c.Move(id, "e2", "e3", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no piece at e2")
}

func TestMoveRejectedWhenWaiting(t *testing.T) {
	c, _ := newTestCoordinator(t)

	snap, err := c.Create(alice(), nil, nil)
	require.NoError(t, err)
	id, _ := uuid.Parse(snap.ID)

	_, _, err = c.Move(id, "e2", "e4", "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), "game is not active")
}

func TestUndoRedoLedger(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	_, _, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)
	_, _, err = c.Move(id, "e7", "e5", "")
	require.NoError(t, err)

	snap, err := c.Undo(id)
	require.NoError(t, err)
	assert.Len(t, snap.Moves, 1)
	assert.Equal(t, color.Black, snap.Turn)

	snap, err = c.Redo(id)
	require.NoError(t, err)
	assert.Len(t, snap.Moves, 2)
	assert.Equal(t, color.White, snap.Turn)
	assert.Equal(t, "e5", snap.Moves[1].SAN)
}

func TestUndoEmptyLedger(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	_, err := c.Undo(id)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Contains(t, err.Error(), "no moves to undo")
}

func TestRedoEmptyBuffer(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	_, err := c.Redo(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no moves to redo")
}

func TestNewMoveClearsRedoBuffer(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	_, _, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)
	_, err = c.Undo(id)
	require.NoError(t, err)

	// A diverging move forfeits the redo line.
	_, _, err = c.Move(id, "d2", "d4", "")
	require.NoError(t, err)

	_, err = c.Redo(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no moves to redo")
}

func TestCheckmateFinishesGame(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	moves := [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}}
	var snap Snapshot
	var err error
	for _, m := range moves {
		snap, _, err = c.Move(id, m[0], m[1], "")
		require.NoError(t, err)
	}

	assert.Equal(t, StatusFinished, snap.Status)
	assert.Equal(t, ResultBlackWins, snap.Result)

	// No moves in a finished game.
	_, _, err = c.Move(id, "a2", "a3", "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestUndoReopensFinishedGame(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	for _, m := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		_, _, err := c.Move(id, m[0], m[1], "")
		require.NoError(t, err)
	}

	snap, err := c.Undo(id)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, snap.Status)
	assert.Equal(t, ResultOngoing, snap.Result)
	assert.Equal(t, color.Black, snap.Turn)

	// Redo restores the mate.
	snap, err = c.Redo(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, snap.Status)
	assert.Equal(t, ResultBlackWins, snap.Result)
}

func TestUndoDoesNotRestoreClockTime(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, &TimeControl{InitialTime: 300})

	time.Sleep(30 * time.Millisecond)
	_, _, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)

	before, ok := c.ClockState(id)
	require.True(t, ok)

	_, err = c.Undo(id)
	require.NoError(t, err)

	after, ok := c.ClockState(id)
	require.True(t, ok)

	// Elapsed time stays spent; only the position rolls back.
	assert.InDelta(t, before.White, after.White, 0.5)
	assert.Less(t, after.White, 300.0)
}

func TestRedoLeavesClockAlone(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, &TimeControl{InitialTime: 600, Increment: 5})

	_, _, err := c.Move(id, "e2", "e4", "")
	require.NoError(t, err)

	afterMove, ok := c.ClockState(id)
	require.True(t, ok)
	assert.Equal(t, color.Black, afterMove.Active)
	assert.InDelta(t, 605.0, afterMove.White, 1.0)

	_, err = c.Undo(id)
	require.NoError(t, err)
	_, err = c.Redo(id)
	require.NoError(t, err)

	// Black did not move; replaying white's move must not credit black's
	// increment or flip the running side.
	afterRedo, ok := c.ClockState(id)
	require.True(t, ok)
	assert.Equal(t, color.Black, afterRedo.Active)
	assert.LessOrEqual(t, afterRedo.Black, 600.0)
	assert.InDelta(t, afterMove.White, afterRedo.White, 0.5)
}

func TestRedoPreservesUnderpromotion(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	moves := [][3]string{
		{"a2", "a4", ""}, {"b7", "b5", ""},
		{"a4", "b5", ""}, {"b8", "a6", ""},
		{"b5", "b6", ""}, {"a6", "c5", ""},
		{"b6", "b7", ""}, {"c5", "e4", ""},
		{"b7", "a8", "n"},
	}
	for _, m := range moves {
		_, _, err := c.Move(id, m[0], m[1], m[2])
		require.NoError(t, err)
	}

	fenBefore, err := c.State(id)
	require.NoError(t, err)

	_, err = c.Undo(id)
	require.NoError(t, err)

	snap, err := c.Redo(id)
	require.NoError(t, err)

	last := snap.Moves[len(snap.Moves)-1]
	assert.Equal(t, "n", last.Promotion)
	assert.Equal(t, fenBefore.Game.FEN, snap.FEN)
}

func TestStateInfo(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	state, err := c.State(id)
	require.NoError(t, err)
	assert.Len(t, state.LegalMoves, 20)
	assert.False(t, state.IsCheck)
	assert.False(t, state.IsCheckmate)

	_, err = c.State(uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTurnAuthority(t *testing.T) {
	c, _ := newTestCoordinator(t)

	white := alice()
	white.ID = "player-white"
	black := bob()
	black.ID = "player-black"

	snap, err := c.Create(white, black, nil)
	require.NoError(t, err)
	id, _ := uuid.Parse(snap.ID)

	s, ok := c.Session(id)
	require.True(t, ok)

	assert.Equal(t, color.White, s.PlayerColor("player-white"))
	assert.Equal(t, color.Black, s.PlayerColor("player-black"))
	assert.Empty(t, s.PlayerColor("spectator"))
	assert.Equal(t, color.White, s.TurnColor())

	_, _, err = c.Move(id, "e2", "e4", "")
	require.NoError(t, err)
	assert.Equal(t, color.Black, s.TurnColor())
}

func TestConcurrentMovesOneSession(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	// Twenty goroutines race the same single legal move; exactly one wins.
	var wg sync.WaitGroup
	okCount := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := c.Move(id, "e2", "e4", ""); err == nil {
				okCount <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(okCount)

	wins := 0
	for range okCount {
		wins++
	}
	assert.Equal(t, 1, wins)

	snap, err := c.State(id)
	require.NoError(t, err)
	assert.Len(t, snap.Game.Moves, 1)
}

func TestConcurrentSessionsIndependent(t *testing.T) {
	c, _ := newTestCoordinator(t)

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = createActive(t, c, nil)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _, err := c.Move(id, "e2", "e4", "")
			assert.NoError(t, err)
			_, _, err = c.Move(id, "e7", "e5", "")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		snap, err := c.State(id)
		require.NoError(t, err)
		assert.Len(t, snap.Game.Moves, 2)
	}
}

func TestTimeUpFinishesGame(t *testing.T) {
	c, publisher := newTestCoordinator(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	expired := make(chan events.Event, 1)
	publisher.Subscribe(events.EventTimeUp, func(ev events.Event) {
		select {
		case expired <- ev:
		default:
		}
	})

	id := createActive(t, c, &TimeControl{InitialTime: 1})

	select {
	case ev := <-expired:
		payload, ok := ev.Payload.(events.TimeUpPayload)
		require.True(t, ok)
		assert.Equal(t, "white", payload.Player)
		assert.Equal(t, string(ResultBlackWins), payload.Result)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a time-up event")
	}

	snap, err := c.State(id)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, snap.Game.Status)
	assert.Equal(t, ResultBlackWins, snap.Game.Result)

	_, _, err = c.Move(id, "e2", "e4", "")
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestDeleteTearsDown(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, &TimeControl{InitialTime: 300})

	require.Equal(t, 1, c.SessionCount())
	require.Equal(t, 1, c.ClockCount())

	require.NoError(t, c.Delete(id))
	assert.Equal(t, 0, c.SessionCount())
	assert.Equal(t, 0, c.ClockCount())

	err := c.Delete(id)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPauseAndResumeClock(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, &TimeControl{InitialTime: 300})

	require.NoError(t, c.PauseClock(id))
	cs, ok := c.ClockState(id)
	require.True(t, ok)
	assert.Empty(t, cs.Active)

	require.NoError(t, c.ResumeClock(id, color.Black))
	cs, _ = c.ClockState(id)
	assert.Equal(t, color.Black, cs.Active)

	err := c.ResumeClock(id, "purple")
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Equal(t, KindNotFound, KindOf(c.PauseClock(uuid.New())))
	assert.Equal(t, KindNotFound, KindOf(c.ResumeClock(uuid.New(), color.White)))
}

func TestPGNExport(t *testing.T) {
	c, _ := newTestCoordinator(t)
	id := createActive(t, c, nil)

	for _, m := range [][2]string{{"e2", "e4"}, {"e7", "e5"}} {
		_, _, err := c.Move(id, m[0], m[1], "")
		require.NoError(t, err)
	}

	pgn, err := c.PGN(id)
	require.NoError(t, err)
	assert.Contains(t, pgn, `[White "alice"]`)
	assert.Contains(t, pgn, `[Black "bob"]`)
	assert.Contains(t, pgn, fmt.Sprintf(`[Date "%s"]`, time.Now().UTC().Format("2006.01.02")))
	assert.Contains(t, pgn, "1. e4 e5")

	_, err = c.PGN(uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}
