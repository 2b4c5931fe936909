package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/user"
)

// roleMiddleware rejects requests from callers below the minimum role or with
// a banned account. The user is fetched fresh so a mid-session ban sticks.
func roleMiddleware(svc user.Service, min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if err = user.Authorize(&usr, min); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func adminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return roleMiddleware(svc, user.RoleAdmin)
}

func superAdminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return roleMiddleware(svc, user.RoleSuperAdmin)
}
