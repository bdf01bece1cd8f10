// Package storage provides shared types for defect record storage.
//
// The engine itself holds no records; a Store is the external collaborator
// the lifecycle operations are wrapped around. This package holds the
// interface and value types referenced by both the memory implementation and
// its consumers (cmd/bugs, the tracker facade).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/steveyegge/bugs/internal/lifecycle"
	"github.com/steveyegge/bugs/internal/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a record whose ID is already taken.
var ErrExists = errors.New("record already exists")

// Store is the persistence contract the tracker and CLI depend on.
// Implementations must hand out copies: callers own what they receive and
// mutations only land through UpdateRecord's version guard.
type Store interface {
	// Record CRUD. UpdateRecord replaces the stored record only when the
	// stored version still equals expectedVersion; otherwise it returns a
	// *lifecycle.ConflictError and stores nothing.
	CreateRecord(ctx context.Context, rec *types.BugRecord) error
	GetRecord(ctx context.Context, id string) (*types.BugRecord, error)
	ListRecords(ctx context.Context, filter types.RecordFilter) ([]*types.BugRecord, error)
	UpdateRecord(ctx context.Context, rec *types.BugRecord, expectedVersion int64) error

	// Timeline. Events are append-only; records are never physically
	// deleted, so the event log is the full history.
	AppendEvent(ctx context.Context, event *types.LifecycleEvent) error
	GetEvents(ctx context.Context, recordID string, limit int) ([]*types.LifecycleEvent, error)

	// Lifecycle
	Close() error
}

// retryInterval spaces the single conflict retry.
const retryInterval = 10 * time.Millisecond

// RetryDo runs op, retrying exactly once if it fails with a version
// conflict. Any other error is permanent. This is the bounded
// refetch-and-retry policy for optimistic concurrency: repeated conflicts
// surface to the caller rather than looping.
func RetryDo(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), 1), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		var conflict *lifecycle.ConflictError
		if errors.As(err, &conflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}
