package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrGameNotFound     = errors.New("game not found")
	ErrNoAvailableMoves = errors.New("no available moves")

	ErrGateClosed     = errors.New("move gate is closed")
	ErrShutdown       = errors.New("shutdown requested")
	ErrUnparsableMove = errors.New("unparsable move")

	ErrProviderNotFound = errors.New("provider not found")
	ErrProviderRequest  = errors.New("provider request failed")
)
