package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/user"
)

type broadcastApi struct {
	svc     broadcast.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerBroadcastAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc broadcast.Service, userSvc user.Service, cache core.ViewCache) {
	api := broadcastApi{svc: svc, userSvc: userSvc, cache: cache}

	bg := g.Group("/broadcasts")
	bg.GET("/active", api.getActive)

	ag := bg.Group("", jwt, adminMiddleware(userSvc))
	ag.PUT("/active", api.upsertActive)
	ag.DELETE("/active", api.deleteActive)
}

func (api *broadcastApi) getActive(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewHome, func() (interface{}, error) {
		return api.svc.GetActive(ctx.Request().Context())
	})
}

func (api *broadcastApi) upsertActive(ctx echo.Context) error {
	var data broadcast.NewBroadcast
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBroadcast")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	bc, err := api.svc.UpsertActive(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, bc)
}

func (api *broadcastApi) deleteActive(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.DeleteActive(ctx.Request().Context(), ctxUsr); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
