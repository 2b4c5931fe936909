package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/darasa-app/darasa/apps/api/echo"
	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/assignment"
	"github.com/darasa-app/darasa/core/audit"
	"github.com/darasa-app/darasa/core/broadcast"
	"github.com/darasa-app/darasa/core/gallery"
	"github.com/darasa-app/darasa/core/officer"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/settings"
	"github.com/darasa-app/darasa/core/user"
	emailsvc "github.com/darasa-app/darasa/services/email"
	logsvc "github.com/darasa-app/darasa/services/logger"
	viewcache "github.com/darasa-app/darasa/storage/cache"
	"github.com/darasa-app/darasa/storage/database"
	sqlxrepos "github.com/darasa-app/darasa/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	cache := viewcache.NewMemory(conf.ViewCacheSize, conf.ViewCacheTTL)

	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(db), logger)
	usrSvc := user.NewService(db, sqlxrepos.NewUserRepository(db), auditSvc, mailSvc, cache, conf)
	broadcastSvc := broadcast.NewService(db, sqlxrepos.NewBroadcastRepository(db), auditSvc, cache)
	settingsSvc := settings.NewService(db, sqlxrepos.NewSettingsRepository(db), auditSvc, cache)
	scheduleSvc := schedule.NewService(db, sqlxrepos.NewScheduleRepository(db), auditSvc, cache)
	assignmentSvc := assignment.NewService(db, sqlxrepos.NewAssignmentRepository(db), auditSvc, cache)
	gallerySvc := gallery.NewService(db, sqlxrepos.NewGalleryRepository(db), auditSvc, cache)
	officerSvc := officer.NewService(db, sqlxrepos.NewOfficerRepository(db), auditSvc, cache)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Cache:         cache,
			UserSvc:       usrSvc,
			AuditSvc:      auditSvc,
			BroadcastSvc:  broadcastSvc,
			SettingsSvc:   settingsSvc,
			ScheduleSvc:   scheduleSvc,
			AssignmentSvc: assignmentSvc,
			GallerySvc:    gallerySvc,
			OfficerSvc:    officerSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*database.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
