package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
)

type settingsApi struct {
	svc     settings.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc settings.Service, userSvc user.Service, cache core.ViewCache) {
	api := settingsApi{svc: svc, userSvc: userSvc, cache: cache}

	sg := g.Group("/settings")
	sg.GET("", api.get)
	sg.PUT("", api.update, jwt, adminMiddleware(userSvc))
}

func (api *settingsApi) get(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewAdminSettings, func() (interface{}, error) {
		return api.svc.Get(ctx.Request().Context())
	})
}

func (api *settingsApi) update(ctx echo.Context) error {
	var data settings.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	s, err := api.svc.Update(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}
