package engine

import (
	"context"
	"errors"

	"finlearn/core"
)

// ErrNotFound is returned by Storage.Load when a slot holds no snapshot.
var ErrNotFound = errors.New("progress snapshot not found")

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
// The service falls back to a fresh record rather than propagating it.
var ErrCorruptSnapshot = errors.New("progress snapshot corrupt")

// Storage abstracts persistence of progress snapshots. One snapshot lives
// under each slot; Save overwrites wholesale (last write wins).
type Storage interface {
	Load(ctx context.Context, slot core.Slot) (core.Progress, error)
	Save(ctx context.Context, slot core.Slot, p core.Progress) error
}
