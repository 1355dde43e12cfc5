package attendance

import "errors"

var (
	ErrDuplicateSession = errors.New("a session already exists for this employee and date")
	ErrNoOpenSession    = errors.New("no open session for this employee and date")
	ErrAlreadyClosed    = errors.New("session is already closed")
	ErrSessionNotFound  = errors.New("session not found")
	ErrClockOutBeforeIn = errors.New("clock-out is before clock-in")
)
