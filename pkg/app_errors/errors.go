package apperrors

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrCounterNotFound    = errors.New("counter not found")
	ErrClassNotConfigured = errors.New("ticket class not configured")
	ErrInvalidTransition  = errors.New("invalid ticket transition")
	ErrCounterOccupied    = errors.New("counter occupied")
	ErrCounterUnbound     = errors.New("counter has no attendant")
	ErrCounterInactive    = errors.New("counter inactive")
	ErrQueueEmpty         = errors.New("no waiting ticket")
	ErrSequenceConflict   = errors.New("sequence conflict")
	ErrReasonRequired     = errors.New("reason required")
	ErrNotCounterOwner    = errors.New("attendant does not own counter")
	ErrInvalidInput       = errors.New("invalid input")
)
