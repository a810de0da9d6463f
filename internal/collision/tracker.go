package collision

import (
	"fmt"

	"github.com/arloliu/fieldset/errs"
)

// Tracker remembers which field identity owns each 64-bit key so that two
// distinct identities never silently share a registry or cache slot.
type Tracker struct {
	owners map[uint64]string // key → identity
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		owners: make(map[uint64]string),
	}
}

// Check reports whether name may use key without claiming it.
// It fails with errs.ErrHashCollision when the key already belongs to a
// different identity.
func (t *Tracker) Check(name string, key uint64) error {
	if name == "" {
		return errs.ErrInvalidFieldName
	}

	if owner, exists := t.owners[key]; exists && owner != name {
		return fmt.Errorf("%w: %q and %q share key %#x", errs.ErrHashCollision, owner, name, key)
	}

	return nil
}

// Track claims key for name. Tracking the same pair twice is a no-op.
func (t *Tracker) Track(name string, key uint64) error {
	if err := t.Check(name, key); err != nil {
		return err
	}

	t.owners[key] = name

	return nil
}
