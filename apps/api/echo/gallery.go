package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/gallery"
	"github.com/darasa-app/darasa/core/user"
)

type galleryApi struct {
	svc     gallery.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerGalleryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc gallery.Service, userSvc user.Service, cache core.ViewCache) {
	api := galleryApi{svc: svc, userSvc: userSvc, cache: cache}

	pg := g.Group("/photos")
	pg.GET("", api.query)

	mg := pg.Group("", jwt, adminMiddleware(userSvc))
	mg.POST("", api.create)
	mg.DELETE("/:id", api.destroy)
}

func (api *galleryApi) query(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewGallery, func() (interface{}, error) {
		photos, err := api.svc.QueryAll(ctx.Request().Context())
		if err != nil {
			return nil, err
		}
		if photos == nil {
			photos = []gallery.Photo{}
		}
		return photos, nil
	})
}

func (api *galleryApi) create(ctx echo.Context) error {
	var data gallery.NewPhoto
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhoto")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *galleryApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctxUsr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
