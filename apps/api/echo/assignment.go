package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
	"github.com/darasa-app/darasa/core/user"
)

type assignmentApi struct {
	svc     assignment.Service
	userSvc user.Service
	cache   core.ViewCache
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc assignment.Service, userSvc user.Service, cache core.ViewCache) {
	api := assignmentApi{svc: svc, userSvc: userSvc, cache: cache}

	ag := g.Group("/assignments")
	ag.GET("", api.query)

	mg := ag.Group("", jwt, adminMiddleware(userSvc))
	mg.POST("", api.create)
	mg.PUT("/:id", api.update)
	mg.DELETE("/:id", api.destroy)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	return cachedJSON(ctx, api.cache, core.ViewAssignments, func() (interface{}, error) {
		assignments, err := api.svc.QueryAll(ctx.Request().Context())
		if err != nil {
			return nil, err
		}
		if assignments == nil {
			assignments = []assignment.Assignment{}
		}
		return assignments, nil
	})
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	a, err := api.svc.Create(ctx.Request().Context(), ctxUsr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	a, err := api.svc.Update(ctx.Request().Context(), ctxUsr, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctxUsr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
