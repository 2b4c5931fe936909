package settings

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

var ErrNotFound = errors.New("settings not found")

type (
	Repository interface {
		GetSettings(ctx context.Context, exec ...core.DBExecutor) (Settings, error)
		UpsertSettings(ctx context.Context, s Settings, exec ...core.DBExecutor) (Settings, error)
	}

	Service interface {
		Get(ctx context.Context) (Settings, error)
		Update(ctx context.Context, actor user.User, us UpdateSettings) (Settings, error)
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

func (svc *service) Get(ctx context.Context) (Settings, error) {
	return svc.repo.GetSettings(ctx)
}

func (svc *service) Update(ctx context.Context, actor user.User, us UpdateSettings) (Settings, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Settings{}, err
	}

	var updated Settings
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		s := Settings{
			SiteName:     us.SiteName,
			Description:  us.Description,
			ContactEmail: us.ContactEmail,
			UpdatedAt:    time.Now().UTC(),
		}
		var txErr error
		if updated, txErr = svc.repo.UpsertSettings(ctx, s, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "updating settings")
		}
		details := fmt.Sprintf("updated site settings (%s)", updated.SiteName)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionUpdateSettings, details, tx)
	})
	if err != nil {
		return Settings{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewHome, core.ViewAdminSettings)
	return updated, nil
}
