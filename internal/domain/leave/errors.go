package leave

import "errors"

var (
	// Ledger errors
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrBalanceExists       = errors.New("leave balance already exists")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrNegativeBalance     = errors.New("operation would make remaining balance negative")
	ErrInvalidDays         = errors.New("days must be positive")

	// Request state machine errors
	ErrRequestNotFound    = errors.New("leave request not found")
	ErrInvalidState       = errors.New("leave request is not in a state that allows this transition")
	ErrZeroDuration       = errors.New("leave range contains no working days")
	ErrOverlappingRequest = errors.New("leave request overlaps an existing request")
)
