package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// pgnResult converts a session result to the PGN result marker.
func pgnResult(r Result) string {
	switch r {
	case ResultWhiteWins:
		return "1-0"
	case ResultBlackWins:
		return "0-1"
	case ResultDraw, ResultStalemate:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// PGN exports the session as a portable game record with the standard
// header tags.
func (c *Coordinator) PGN(id uuid.UUID) (string, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return "", ErrNotFound(id.String())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	white, black := "Unknown", "Unknown"
	if s.White != nil {
		white = s.White.Username
	}
	if s.Black != nil {
		black = s.Black.Username
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Event \"Live Game\"]\n")
	fmt.Fprintf(&b, "[White %q]\n", white)
	fmt.Fprintf(&b, "[Black %q]\n", black)
	fmt.Fprintf(&b, "[Date %q]\n", s.CreatedAt.Format("2006.01.02"))
	fmt.Fprintf(&b, "[Result %q]\n", pgnResult(s.Result))
	b.WriteString("\n")
	b.WriteString(s.board.Movetext())
	b.WriteString("\n")

	return b.String(), nil
}
