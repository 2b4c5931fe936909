package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
)

type scheduleApi struct {
	svc     schedule.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schedule.Service, userSvc user.Service, cache core.ViewCache) {
	api := scheduleApi{svc: svc, userSvc: userSvc, cache: cache}

	sg := g.Group("/schedules")
	sg.GET("", api.query)

	ag := sg.Group("", jwt, adminMiddleware(userSvc))
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewSchedules, func() (interface{}, error) {
		schedules, err := api.svc.QueryAll(ctx.Request().Context())
		if err != nil {
			return nil, err
		}
		if schedules == nil {
			schedules = []schedule.Schedule{}
		}
		return schedules, nil
	})
}

func (api *scheduleApi) create(ctx echo.Context) error {
	var data schedule.NewSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sch, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	var data schedule.NewSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sch, err := api.svc.Update(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctxUsr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
