package store

import (
	"context"

	"github.com/walksync/walksync/internal/model"
)

// Store is the persistence contract for walk records and the run status
// singleton.
type Store interface {
	// UpsertWalk inserts the record or, when the id already exists,
	// overwrites all mutable fields and refreshes last_seen.
	UpsertWalk(ctx context.Context, walk model.WalkRecord) error

	// ListWalks returns every stored record ordered by ascending walk date,
	// records without a date sorting first.
	ListWalks(ctx context.Context) ([]model.WalkRecord, error)

	// UpdateRunStatus upserts the singleton status row. A nil
	// LastSuccessfulRun leaves the previously recorded timestamp in place.
	UpdateRunStatus(ctx context.Context, status model.RunStatus) error

	// GetRunStatus returns the status row, or nil when no run has been
	// recorded yet.
	GetRunStatus(ctx context.Context) (*model.RunStatus, error)

	Ping(ctx context.Context) error
	Close() error
}
