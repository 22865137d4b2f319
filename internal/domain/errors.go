package domain

import "errors"

var (
	ErrDuplicateTx           = errors.New("transaction id already recorded")
	ErrAccountLocked         = errors.New("account is locked")
	ErrInsufficientAvailable = errors.New("insufficient available funds")
	ErrInsufficientHeld      = errors.New("insufficient held funds")
)
