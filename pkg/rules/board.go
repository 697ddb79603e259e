// Package rules binds the chess rules engine. Everything the rest of the
// server knows about legality, notation and terminal states goes through
// Board; no other package imports the chess library.
package rules

import (
	"fmt"
	"strings"

	chesslib "github.com/corentings/chess/v2"

	"github.com/tecu23/chess-server/internal/color"
)

// Board wraps a single game's position. It is not safe for concurrent use;
// callers serialize access per session.
type Board struct {
	game    *chesslib.Game
	history []string // applied moves in UCI, for rebuild-based undo
}

// NewBoard returns a board at the standard initial position.
func NewBoard() *Board {
	return &Board{game: chesslib.NewGame()}
}

// FEN returns the current position notation.
func (b *Board) FEN() string {
	return b.game.FEN()
}

// Turn returns the side to move.
func (b *Board) Turn() color.Color {
	if b.game.Position().Turn() == chesslib.White {
		return color.White
	}
	return color.Black
}

// MoveCount returns the number of applied half-moves.
func (b *Board) MoveCount() int {
	return len(b.history)
}

// LegalMoves returns every legal move in UCI notation.
func (b *Board) LegalMoves() []string {
	valid := b.game.ValidMoves()
	moves := make([]string, 0, len(valid))
	for i := range valid {
		moves = append(moves, valid[i].String())
	}
	return moves
}

// Validate checks (from, to, promotion) against the current position. The
// diagnostic follows a fixed priority: no piece at the source square, then
// wrong side to move, then a generic illegal-move message.
func (b *Board) Validate(from, to, promotion string) error {
	fromSq, err := parseSquare(from)
	if err != nil {
		return err
	}
	if _, err := parseSquare(to); err != nil {
		return err
	}

	uci := uciString(from, to, promotion)
	for _, legal := range b.LegalMoves() {
		if legal == uci {
			return nil
		}
	}

	pos := b.game.Position()
	piece := pos.Board().Piece(fromSq)
	if piece == chesslib.NoPiece {
		return fmt.Errorf("no piece at %s", from)
	}
	if piece.Color() != pos.Turn() {
		turn, mover := color.White, color.Black
		if pos.Turn() == chesslib.Black {
			turn, mover = color.Black, color.White
		}
		return fmt.Errorf("it's %s's turn, but you're trying to move a %s piece", turn, mover)
	}
	return fmt.Errorf("illegal move: %s to %s", from, to)
}

// SAN returns the algebraic notation of the move against the current
// position. Must be called before Push: disambiguation depends on the
// pre-move position.
func (b *Board) SAN(from, to, promotion string) (string, error) {
	pos := b.game.Position()
	mv, err := chesslib.UCINotation{}.Decode(pos, uciString(from, to, promotion))
	if err != nil {
		return "", fmt.Errorf("illegal move: %s to %s", from, to)
	}
	return chesslib.AlgebraicNotation{}.Encode(pos, mv), nil
}

// Push applies the move to the position. Callers validate first.
func (b *Board) Push(from, to, promotion string) error {
	uci := uciString(from, to, promotion)
	if err := b.game.PushNotationMove(uci, chesslib.UCINotation{}, nil); err != nil {
		return fmt.Errorf("illegal move: %s to %s", from, to)
	}
	b.history = append(b.history, uci)
	return nil
}

// UndoLast reverts the most recent move by rebuilding the game from the
// initial position and replaying every move but the last.
func (b *Board) UndoLast() error {
	if len(b.history) == 0 {
		return fmt.Errorf("no moves to undo")
	}

	replay := b.history[:len(b.history)-1]
	rebuilt := chesslib.NewGame()
	for _, uci := range replay {
		if err := rebuilt.PushNotationMove(uci, chesslib.UCINotation{}, nil); err != nil {
			return fmt.Errorf("replay failed at %s: %w", uci, err)
		}
	}

	b.game = rebuilt
	b.history = b.history[:len(b.history)-1]
	return nil
}

// IsCheck reports whether the side to move is in check.
func (b *Board) IsCheck() bool {
	moves := b.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chesslib.Check)
}

// IsCheckmate reports whether the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.game.Position().Status() == chesslib.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (b *Board) IsStalemate() bool {
	return b.game.Position().Status() == chesslib.Stalemate
}

// IsInsufficientMaterial reports a dead-position draw.
func (b *Board) IsInsufficientMaterial() bool {
	return b.game.Outcome() == chesslib.Draw &&
		b.game.Method() == chesslib.InsufficientMaterial
}

// IsDrawByRule reports a forced draw by repetition or the move-count rule.
func (b *Board) IsDrawByRule() bool {
	if b.game.Outcome() != chesslib.Draw {
		return false
	}
	switch b.game.Method() {
	case chesslib.FivefoldRepetition, chesslib.SeventyFiveMoveRule:
		return true
	}
	return false
}

// IsDraw reports any drawn terminal state, stalemate included.
func (b *Board) IsDraw() bool {
	return b.IsStalemate() || b.IsInsufficientMaterial() || b.IsDrawByRule()
}

// Movetext returns the game's moves in PGN movetext form, trailing result
// marker included.
func (b *Board) Movetext() string {
	return strings.TrimSpace(b.game.String())
}

func uciString(from, to, promotion string) string {
	return strings.ToLower(from) + strings.ToLower(to) + strings.ToLower(promotion)
}

func parseSquare(s string) (chesslib.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square notation: %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	return chesslib.Square(rank*8 + file), nil
}
