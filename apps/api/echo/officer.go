package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/officer"
	"github.com/darasa-app/darasa/core/user"
)

type officerApi struct {
	svc     officer.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerOfficerAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc officer.Service, userSvc user.Service, cache core.ViewCache) {
	api := officerApi{svc: svc, userSvc: userSvc, cache: cache}

	og := g.Group("/officers")
	og.GET("", api.query)

	mg := og.Group("", jwt, adminMiddleware(userSvc))
	mg.POST("", api.create)
	mg.PUT("/:id", api.update)
	mg.DELETE("/:id", api.destroy)
}

func (api *officerApi) query(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewOfficers, func() (interface{}, error) {
		officers, err := api.svc.QueryAll(ctx.Request().Context())
		if err != nil {
			return nil, err
		}
		if officers == nil {
			officers = []officer.Officer{}
		}
		return officers, nil
	})
}

func (api *officerApi) create(ctx echo.Context) error {
	var data officer.NewOfficer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOfficer")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	o, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *officerApi) update(ctx echo.Context) error {
	var data officer.NewOfficer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOfficer")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	o, err := api.svc.Update(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *officerApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctxUsr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
