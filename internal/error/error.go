package error

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds        = errors.New("coordinates out of grid bound")
	ErrAlreadyTargeted    = errors.New("position already targeted")
	ErrOutOfTurn          = errors.New("not this side's turn")
	ErrPlacementExhausted = errors.New("fleet placement exhausted")
	ErrInvalidCatalog     = errors.New("invalid ship catalog")
	ErrInvalidGridSize    = errors.New("invalid grid size")
	ErrInvalidAttempts    = errors.New("invalid placement attempts limit")
	ErrShipOverlap        = errors.New("ship overlaps another ship")
	ErrMatchOver          = errors.New("match is already over")
	ErrMissingTarget      = errors.New("no target supplied")
	ErrNoTargetsLeft      = errors.New("no untargeted position left")
	ErrMatchNotExists     = errors.New("match does not exist")
	ErrSessionNotFound    = errors.New("session not found")
)

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w\tx: %d\ty: %d", ErrOutOfBounds, x, y)
}

func ErrShipOutOfGridBound(name string, x, y int) error {
	return fmt.Errorf("%w: ship %s does not fit at\tx: %d\ty: %d", ErrOutOfBounds, name, x, y)
}

func ErrAttackPositionAlreadyTargeted(x, y int) error {
	return fmt.Errorf("%w in previous rounds\tx: %d\ty: %d", ErrAlreadyTargeted, x, y)
}

func ErrShipPositionTaken(name string, x, y int) error {
	return fmt.Errorf("%w: ship %s at\tx: %d\ty: %d", ErrShipOverlap, name, x, y)
}

func ErrNotPlayerTurn(side string) error {
	return fmt.Errorf("%w: %s", ErrOutOfTurn, side)
}

func ErrPlacementAttemptsExhausted(name string, attempts int) error {
	return fmt.Errorf("%w: could not place %s after %d attempts", ErrPlacementExhausted, name, attempts)
}

func ErrInvalidShipType(name string, length int) error {
	return fmt.Errorf("%w: ship %q with length %d", ErrInvalidCatalog, name, length)
}

func ErrEmptyCatalog() error {
	return fmt.Errorf("%w: catalog has no ships", ErrInvalidCatalog)
}

func ErrGridSizeNotPositive(size int) error {
	return fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
}

func ErrPlacementAttemptsNotPositive(attempts int) error {
	return fmt.Errorf("%w: must be positive, got: %d", ErrInvalidAttempts, attempts)
}

func ErrMatchFinished(matchUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrMatchOver, matchUuid)
}

func ErrHumanTargetAbsent() error {
	return fmt.Errorf("%w: human player must supply exactly one position", ErrMissingTarget)
}

func ErrOpponentBoardExhausted() error {
	return fmt.Errorf("%w on opponent board", ErrNoTargetsLeft)
}

func ErrMatchNotExist(matchUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrMatchNotExists, matchUuid)
}

func ErrSessionNotExist(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}
