package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/user"
)

type auditApi struct {
	svc audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc audit.Service, userSvc user.Service) {
	api := auditApi{svc: svc}

	ag := g.Group("/audit", jwt, adminMiddleware(userSvc))
	ag.GET("", api.query)
}

func (api *auditApi) query(ctx echo.Context) error {
	entries, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying audit entries")
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}
