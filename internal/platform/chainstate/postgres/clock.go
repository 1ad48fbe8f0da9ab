package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SystemClock reads wall time; the postgres backend has no pinned clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
