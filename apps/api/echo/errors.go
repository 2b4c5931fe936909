package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/gallery"
	"github.com/darasa-app/darasa/core/officer"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountBanned        = echo.NewHTTPError(http.StatusForbidden, "account banned")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// mapDomainError translates service sentinel errors into HTTP status codes.
// The two guard rejections keep distinct messages so an admin can tell a
// self-mutation attempt from a protected account.
func mapDomainError(err error) (int, interface{}, bool) {
	switch err {
	case user.ErrUnauthorized:
		return http.StatusUnauthorized, user.ErrUnauthorized.Error(), true
	case user.ErrBanned:
		return http.StatusForbidden, user.ErrBanned.Error(), true
	case user.ErrForbidden:
		return http.StatusForbidden, user.ErrForbidden.Error(), true
	case user.ErrCannotTouchSelf:
		return http.StatusForbidden, user.ErrCannotTouchSelf.Error(), true
	case user.ErrImmutableTarget:
		return http.StatusForbidden, user.ErrImmutableTarget.Error(), true
	case user.ErrEmailExists:
		return http.StatusBadRequest, user.ErrEmailExists.Error(), true
	case user.ErrNotFound, broadcast.ErrNotFound, settings.ErrNotFound, schedule.ErrNotFound,
		assignment.ErrNotFound, gallery.ErrNotFound, officer.ErrNotFound:
		return http.StatusNotFound, err.Error(), true
	}
	return 0, nil, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if c, m, ok := mapDomainError(cause); ok {
			code = c
			message = m
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Name = claims.Name
					usr.Email = claims.Email
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
