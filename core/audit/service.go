package audit

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry, exec ...core.DBExecutor) (Entry, error)
		// QueryEntries returns entries newest first.
		QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]Entry, error)
		CountEntries(ctx context.Context, exec ...core.DBExecutor) (int, error)
		// PruneEntries deletes every entry outside the `keep` most recently created.
		PruneEntries(ctx context.Context, keep int, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		// Append writes an entry. Pass the caller's transaction as exec so the
		// entry commits or rolls back with the mutation it records.
		Append(ctx context.Context, actorID, action, details string, exec ...core.DBExecutor) error
		// Prune enforces the retention cap. Best effort: failures are logged
		// and swallowed so they never undo an already-committed mutation.
		Prune(ctx context.Context)
		Query(ctx context.Context) ([]Entry, error)
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) *service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) Append(ctx context.Context, actorID, action, details string, exec ...core.DBExecutor) error {
	entry := Entry{
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := svc.repo.CreateEntry(ctx, entry, exec...); err != nil {
		return errors.Wrap(err, "appending audit entry")
	}
	return nil
}

func (svc *service) Prune(ctx context.Context) {
	count, err := svc.repo.CountEntries(ctx)
	if err != nil {
		svc.logger.Error("counting audit entries", err)
		return
	}
	if count <= RetentionCount {
		return
	}
	if _, err = svc.repo.PruneEntries(ctx, RetentionCount); err != nil {
		svc.logger.Error("pruning audit entries", err)
	}
}

func (svc *service) Query(ctx context.Context) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx)
}
