package game

import "errors"

var (
	ErrInvalidMove = errors.New("invalid move")
)
