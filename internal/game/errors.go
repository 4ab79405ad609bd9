package game

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidField    = errors.New("field must be between 1 and 9")
	ErrSameParticipant = errors.New("a player cannot play against themselves")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameFinished    = errors.New("game is already finished")
	ErrFieldTaken      = errors.New("field is already taken")
	ErrInvalidSymbols  = errors.New("players must hold distinct symbols X and O")

	// ErrPairExists is returned by a Repository when a game for the same pair
	// was inserted concurrently.
	ErrPairExists = errors.New("game for this pair already exists")
)

// Code returns the machine-readable code of a game error, or UNAVAILABLE for
// anything the engine does not own.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	case errors.Is(err, ErrInvalidField):
		return "INVALID_FIELD"
	case errors.Is(err, ErrSameParticipant):
		return "SAME_PARTICIPANT"
	case errors.Is(err, ErrPlayerNotFound):
		return "PLAYER_NOT_FOUND"
	case errors.Is(err, ErrGameNotFound):
		return "GAME_NOT_FOUND"
	case errors.Is(err, ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, ErrGameFinished):
		return "GAME_FINISHED"
	case errors.Is(err, ErrFieldTaken):
		return "FIELD_TAKEN"
	case errors.Is(err, ErrInvalidSymbols):
		return "INVALID_SYMBOLS"
	default:
		return "UNAVAILABLE"
	}
}
