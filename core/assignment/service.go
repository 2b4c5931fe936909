package assignment

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

var ErrNotFound = errors.New("assignment not found")

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		// QueryAllAssignments returns assignments ordered by due date, soonest first.
		QueryAllAssignments(ctx context.Context, exec ...core.DBExecutor) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		QueryAll(ctx context.Context) ([]Assignment, error)
		Create(ctx context.Context, actor user.User, na NewAssignment) (Assignment, error)
		Update(ctx context.Context, actor user.User, id string, na NewAssignment) (Assignment, error)
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

func (svc *service) QueryAll(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAllAssignments(ctx)
}

func (svc *service) Create(ctx context.Context, actor user.User, na NewAssignment) (Assignment, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Assignment{}, err
	}

	var created Assignment
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		now := time.Now().UTC()
		a := Assignment{
			Title:       na.Title,
			Description: na.Description,
			Subject:     na.Subject,
			DueDate:     na.DueDate.UTC(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		var txErr error
		if created, txErr = svc.repo.CreateAssignment(ctx, a, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "creating assignment")
		}
		details := fmt.Sprintf("added assignment %q (%s)", created.Title, created.Subject)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionCreateAssignment, details, tx)
	})
	if err != nil {
		return Assignment{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewAssignments, core.ViewHome)
	return created, nil
}

func (svc *service) Update(ctx context.Context, actor user.User, id string, na NewAssignment) (Assignment, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	var updated Assignment
	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		a.Title = na.Title
		a.Description = na.Description
		a.Subject = na.Subject
		a.DueDate = na.DueDate.UTC()
		a.UpdatedAt = time.Now().UTC()
		var txErr error
		if updated, txErr = svc.repo.UpdateAssignment(ctx, a, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating assignment")
		}
		details := fmt.Sprintf("updated assignment %q", updated.Title)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionUpdateAssignment, details, tx)
	})
	if err != nil {
		return Assignment{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewAssignments, core.ViewHome)
	return updated, nil
}

func (svc *service) Delete(ctx context.Context, actor user.User, id string) error {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return err
	}
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}

	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if txErr := svc.repo.DeleteAssignment(ctx, a.ID, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "deleting assignment")
		}
		details := fmt.Sprintf("removed assignment %q", a.Title)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionDeleteAssignment, details, tx)
	})
	if err != nil {
		return err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewAssignments, core.ViewHome)
	return nil
}
