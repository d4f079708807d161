package algo

import (
	"errors"
	"fmt"

	"github.com/pawnrank/pawnrank/schema"
)

var (
	// ErrConfiguration marks an invalid threshold table.
	ErrConfiguration = errors.New("invalid threshold configuration")

	// ErrInvalidSubTier marks a sub-tier outside 1..5.
	ErrInvalidSubTier = errors.New("invalid sub-tier")

	// ErrInvalidEntry marks a rating-history entry that cannot be segmented.
	ErrInvalidEntry = errors.New("invalid history entry")
)

// ConfigurationError describes why a threshold table was rejected.
type ConfigurationError struct {
	Tier   schema.Tier
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Tier == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: tier %s: %s", ErrConfiguration, e.Tier, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// EntryError names the offending position in a rating history.
type EntryError struct {
	Index  int
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s at index %d: %s", ErrInvalidEntry, e.Index, e.Reason)
}

func (e *EntryError) Unwrap() error { return ErrInvalidEntry }
