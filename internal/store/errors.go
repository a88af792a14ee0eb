package store

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned when a reservation would push the sum of
// non-refunded quantities past the event's capacity. It is an expected
// outcome, not a failure: callers turn it into a user-facing message.
var ErrCapacityExceeded = errors.New("not enough tickets remaining")

// ErrAlreadyVoted is returned when a user has already voted on an event.
var ErrAlreadyVoted = errors.New("already voted for this event")

// ErrVotingClosed is returned when a vote is cast outside the event's
// voting phase.
var ErrVotingClosed = errors.New("voting is not open for this event")

// ErrNotVotable is returned when votes are cast on a defined event.
var ErrNotVotable = errors.New("event is not open to voting")

// ErrInvalidTransition is returned on a disallowed status change, for both
// event lifecycle and payment status.
var ErrInvalidTransition = errors.New("invalid status transition")
