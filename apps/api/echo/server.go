package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/gallery"
	"github.com/darasa-app/darasa/core/officer"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
)

type (
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger
		Cache  core.ViewCache

		UserSvc       user.Service
		AuditSvc      audit.Service
		BroadcastSvc  broadcast.Service
		SettingsSvc   settings.Service
		ScheduleSvc   schedule.Service
		AssignmentSvc assignment.Service
		GallerySvc    gallery.Service
		OfficerSvc    officer.Service

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errChan  chan error
		shutChan chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errChan:  make(chan error, 1),
		shutChan: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig())

	registerUserAPI(v1, jwt, s.deps.UserSvc)
	registerBroadcastAPI(v1, jwt, s.deps.BroadcastSvc, s.deps.UserSvc, s.deps.Cache)
	registerSettingsAPI(v1, jwt, s.deps.SettingsSvc, s.deps.UserSvc, s.deps.Cache)
	registerScheduleAPI(v1, jwt, s.deps.ScheduleSvc, s.deps.UserSvc, s.deps.Cache)
	registerAssignmentAPI(v1, jwt, s.deps.AssignmentSvc, s.deps.UserSvc, s.deps.Cache)
	registerGalleryAPI(v1, jwt, s.deps.GallerySvc, s.deps.UserSvc, s.deps.Cache)
	registerOfficerAPI(v1, jwt, s.deps.OfficerSvc, s.deps.UserSvc, s.deps.Cache)
	registerAuditAPI(v1, jwt, s.deps.AuditSvc, s.deps.UserSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutChan, os.Interrupt, syscall.SIGTERM)
	s.errChan <- s.app.Start(s.deps.Conf.Server.Host)
}

func (s *server) signalShutdown() {
	s.shutChan <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errChan
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutChan
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
