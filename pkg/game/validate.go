package game

import (
	"fmt"
	"regexp"
	"strings"
)

// Input syntax limits, matched before anything reaches the rules engine.
var (
	squarePattern   = regexp.MustCompile(`^[a-h][1-8]$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
)

const (
	maxRating          = 3000
	maxInitialSeconds  = 7200 // 2 hours
	maxIncrementSecond = 60
)

// ValidateSquare normalizes and checks a square name like "e4".
func ValidateSquare(square, field string) (string, error) {
	square = strings.ToLower(strings.TrimSpace(square))
	if square == "" {
		return "", ErrValidation(fmt.Sprintf("%s cannot be empty", field), field)
	}
	if !squarePattern.MatchString(square) {
		return "", ErrValidation(
			fmt.Sprintf("invalid %s format, expected [a-h][1-8] (e.g. 'e4')", field), field)
	}
	return square, nil
}

// ValidatePromotion normalizes and checks a promotion piece letter.
func ValidatePromotion(promotion string) (string, error) {
	promotion = strings.ToLower(strings.TrimSpace(promotion))
	if promotion == "" {
		return "", nil
	}
	switch promotion {
	case "q", "r", "b", "n":
		return promotion, nil
	}
	return "", ErrValidation("invalid promotion piece, must be one of: q, r, b, n", "promotion")
}

// ValidateMoveInput checks the full (from, to, promotion) triple.
func ValidateMoveInput(from, to, promotion string) (string, string, string, error) {
	from, err := ValidateSquare(from, "from_square")
	if err != nil {
		return "", "", "", err
	}
	to, err = ValidateSquare(to, "to_square")
	if err != nil {
		return "", "", "", err
	}
	promotion, err = ValidatePromotion(promotion)
	if err != nil {
		return "", "", "", err
	}
	if from == to {
		return "", "", "", ErrInvalidMove("from and to squares cannot be the same")
	}
	return from, to, promotion, nil
}

// ValidatePlayer checks username and rating limits.
func ValidatePlayer(p Player) error {
	if !usernamePattern.MatchString(strings.TrimSpace(p.Username)) {
		return ErrValidation(
			"username must be 3-20 characters of letters, numbers, hyphens and underscores",
			"username")
	}
	if p.Rating < 0 || p.Rating > maxRating {
		return ErrValidation(fmt.Sprintf("rating must be between 0 and %d", maxRating), "rating")
	}
	return nil
}

// ValidateTimeControl checks the clock settings against sanity bounds.
func ValidateTimeControl(tc *TimeControl) error {
	if tc == nil {
		return nil
	}
	if tc.InitialTime <= 0 {
		return ErrValidation("initial time must be positive", "initial_time")
	}
	if tc.Increment < 0 {
		return ErrValidation("increment cannot be negative", "increment")
	}
	if tc.InitialTime > maxInitialSeconds {
		return ErrValidation("initial time cannot exceed 2 hours", "initial_time")
	}
	if tc.Increment > maxIncrementSecond {
		return ErrValidation("increment cannot exceed 1 minute", "increment")
	}
	return nil
}
