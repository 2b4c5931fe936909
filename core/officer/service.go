package officer

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

var ErrNotFound = errors.New("officer not found")

type (
	Repository interface {
		CreateOfficer(ctx context.Context, o Officer, exec ...core.DBExecutor) (Officer, error)
		// QueryAllOfficers returns officers ordered by rank, lowest first.
		QueryAllOfficers(ctx context.Context, exec ...core.DBExecutor) ([]Officer, error)
		GetOfficerByID(ctx context.Context, id string, exec ...core.DBExecutor) (Officer, error)
		UpdateOfficer(ctx context.Context, o Officer, exec ...core.DBExecutor) (Officer, error)
		DeleteOfficer(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		QueryAll(ctx context.Context) ([]Officer, error)
		Create(ctx context.Context, actor user.User, no NewOfficer) (Officer, error)
		Update(ctx context.Context, actor user.User, id string, no NewOfficer) (Officer, error)
		Delete(ctx context.Context, actor user.User, id string) error
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

func (svc *service) QueryAll(ctx context.Context) ([]Officer, error) {
	return svc.repo.QueryAllOfficers(ctx)
}

func (svc *service) Create(ctx context.Context, actor user.User, no NewOfficer) (Officer, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Officer{}, err
	}

	var created Officer
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		now := time.Now().UTC()
		o := Officer{
			Name:      no.Name,
			Position:  no.Position,
			Rank:      no.Rank,
			CreatedAt: now,
			UpdatedAt: now,
		}
		var txErr error
		if created, txErr = svc.repo.CreateOfficer(ctx, o, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "creating officer")
		}
		details := fmt.Sprintf("added %s as %s to the officer roster", created.Name, created.Position)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionCreateOfficer, details, tx)
	})
	if err != nil {
		return Officer{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewOfficers, core.ViewHome)
	return created, nil
}

func (svc *service) Update(ctx context.Context, actor user.User, id string, no NewOfficer) (Officer, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Officer{}, err
	}
	o, err := svc.repo.GetOfficerByID(ctx, id)
	if err != nil {
		return Officer{}, err
	}

	var updated Officer
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		o.Name = no.Name
		o.Position = no.Position
		o.Rank = no.Rank
		o.UpdatedAt = time.Now().UTC()
		var txErr error
		if updated, txErr = svc.repo.UpdateOfficer(ctx, o, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating officer")
		}
		details := fmt.Sprintf("updated officer %s (%s)", updated.Name, updated.Position)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionUpdateOfficer, details, tx)
	})
	if err != nil {
		return Officer{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewOfficers, core.ViewHome)
	return updated, nil
}

func (svc *service) Delete(ctx context.Context, actor user.User, id string) error {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return err
	}
	o, err := svc.repo.GetOfficerByID(ctx, id)
	if err != nil {
		return err
	}

	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if txErr := svc.repo.DeleteOfficer(ctx, o.ID, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "deleting officer")
		}
		details := fmt.Sprintf("removed %s from the officer roster", o.Name)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionDeleteOfficer, details, tx)
	})
	if err != nil {
		return err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewOfficers, core.ViewHome)
	return nil
}
