package helpers

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id format")
	}
	return id, nil
}

// ParsePositiveInt parses a strictly positive integer.
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive integer, got %q", s)
	}
	return n, nil
}

// ParseBookingID parses a positive integer booking identifier.
func ParseBookingID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid booking id: %s", s)
	}
	return uint(n), nil
}
