package gallery

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

var ErrNotFound = errors.New("photo not found")

type (
	Repository interface {
		CreatePhoto(ctx context.Context, p Photo, exec ...core.DBExecutor) (Photo, error)
		// QueryAllPhotos returns photos newest first.
		QueryAllPhotos(ctx context.Context, exec ...core.DBExecutor) ([]Photo, error)
		GetPhotoByID(ctx context.Context, id string, exec ...core.DBExecutor) (Photo, error)
		DeletePhoto(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		QueryAll(ctx context.Context) ([]Photo, error)
		Create(ctx context.Context, actor user.User, np NewPhoto) (Photo, error)
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

func (svc *service) QueryAll(ctx context.Context) ([]Photo, error) {
	return svc.repo.QueryAllPhotos(ctx)
}

func (svc *service) Create(ctx context.Context, actor user.User, np NewPhoto) (Photo, error) {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return Photo{}, err
	}

	var created Photo
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		p := Photo{
			Title:     np.Title,
			ImageURL:  np.ImageURL,
			CreatedAt: time.Now().UTC(),
		}
		var txErr error
		if created, txErr = svc.repo.CreatePhoto(ctx, p, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "creating photo")
		}
		details := fmt.Sprintf("added photo %q to the gallery", created.Title)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionCreatePhoto, details, tx)
	})
	if err != nil {
		return Photo{}, err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewGallery)
	return created, nil
}

func (svc *service) Delete(ctx context.Context, actor user.User, id string) error {
	if err := user.Authorize(&actor, user.RoleAdmin); err != nil {
		return err
	}
	p, err := svc.repo.GetPhotoByID(ctx, id)
	if err != nil {
		return err
	}

	err = core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if txErr := svc.repo.DeletePhoto(ctx, p.ID, tx); txErr != nil {
			return pkgerrors.Wrap(txErr, "deleting photo")
		}
		details := fmt.Sprintf("removed photo %q from the gallery", p.Title)
		return svc.auditSvc.Append(ctx, actor.ID, audit.ActionDeletePhoto, details, tx)
	})
	if err != nil {
		return err
	}

	svc.auditSvc.Prune(ctx)
	svc.cache.Invalidate(core.ViewGallery)
	return nil
}
