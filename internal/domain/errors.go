package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidTurn          = errors.New("not the acting player's turn")
	ErrInsufficientMana     = errors.New("insufficient mana")
	ErrPlayerAlreadyInMatch = errors.New("player already in a match")
	ErrMatchFinished        = errors.New("match already finished")
	ErrNotParticipant       = errors.New("player is not a participant of the match")
	ErrCardNotInHand        = errors.New("card not in hand")
	ErrInvalidOpponent      = errors.New("invalid opponent")
	ErrStaleMatch           = errors.New("match changed concurrently")
)
