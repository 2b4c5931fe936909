package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
)

var ErrNotFound = errors.New("broadcast not found")

type (
	Repository interface {
		CreateBroadcast(ctx context.Context, bc Broadcast, exec ...core.DBExecutor) (Broadcast, error)
		// GetActiveBroadcast returns the currently active broadcast or ErrNotFound.
		GetActiveBroadcast(ctx context.Context, exec ...core.DBExecutor) (Broadcast, error)
		QueryActiveBroadcasts(ctx context.Context, exec ...core.DBExecutor) ([]Broadcast, error)
		UpdateBroadcast(ctx context.Context, bc Broadcast, exec ...core.DBExecutor) (Broadcast, error)
		// DeactivateBroadcasts deactivates every active broadcast, except the
		// given ids if any.
		DeactivateBroadcasts(ctx context.Context, exceptIDs []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		GetActive(ctx context.Context) (Broadcast, error)
		UpsertActive(ctx context.Context, actor user.User, nb NewBroadcast) (Broadcast, error)
		DeleteActive(ctx context.Context, actor user.User) error
	}

	service struct {
		db       core.DB
		repo     Repository
		auditSvc audit.Service
		cache    core.ViewCache
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, auditSvc audit.Service, cache core.ViewCache) *service {
	return &service{db: db, repo: repo, auditSvc: auditSvc, cache: cache}
}

func (svc *service) GetActive(ctx context.Context) (Broadcast, error) {
	return svc.repo.GetActiveBroadcast(ctx)
}

// UpsertActive publishes the broadcast: the current active one (if any) is
// updated in place and stays active, otherwise a new active broadcast is
// created. The read-modify-write sequence runs in one transaction so readers
// never observe zero or two active broadcasts.
func (svc *service) UpsertActive(ctx context.Context, actor user.User, nb NewBroadcast) (Broadcast, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Broadcast{}, err
	}

	var result Broadcast
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		now := time.Now().UTC()
		action := audit.ActionUpdateBroadcast

		current, txErr := svc.repo.GetActiveBroadcast(ctx, tx)
		switch txErr {
		case nil:
			// normally a no-op: the invariant guarantees at most one active row
			if _, txErr = svc.repo.DeactivateBroadcasts(ctx, []string{current.ID}, tx); txErr != nil {
				return pkgerrors.Wrap(txErr, "deactivating other broadcasts")
			}
			current.Title = nb.Title
			current.Content = nb.Content
			current.AuthorID = actor.ID
			current.UpdatedAt = now
			if result, txErr = svc.repo.UpdateBroadcast(ctx, current, tx); txErr != nil {
				return pkgerrors.Wrap(txErr, "updating broadcast")
			}
		case ErrNotFound:
			action = audit.ActionCreateBroadcast
			if _, txErr = svc.repo.DeactivateBroadcasts(ctx, nil, tx); txErr != nil {
				return pkgerrors.Wrap(txErr, "deactivating stragglers")
			}
			bc := Broadcast{
				Title:     nb.Title,
				Content:   nb.Content,
				AuthorID:  actor.ID,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if result, txErr = svc.repo.CreateBroadcast(ctx, bc, tx); txErr != nil {
				return pkgerrors.Wrap(txErr, "creating broadcast")
			}
		default:
			return pkgerrors.Wrap(txErr, "finding active broadcast")
		}

		details := fmt.Sprintf("published broadcast %q", result.Title)
		return svc.auditSvc.Append(ctx, actor.ID, action, details, tx)
	})
	if err != nil {
		return Broadcast{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewHome, core.ViewAdminSettings)
	return result, nil
}

// DeleteActive takes down the active broadcast. Every active row is
// deactivated, not just the newest one.
func (svc *service) DeleteActive(ctx context.Context, actor user.User) error {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return err
	}

	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, txErr := svc.repo.DeactivateBroadcasts(ctx, nil, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "deactivating broadcasts")
		}
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionDisableBroadcast, "took down the active broadcast", tx)
	})
	if err != nil {
		return err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewHome, core.ViewAdminSettings)
	return nil
}
