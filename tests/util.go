package testutil

import (
	"context"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
)

var validatorsOnce sync.Once

// NewConfig sets core.Conf to a deterministic test configuration and makes
// sure the validators are initialized. Call it before exercising services.
func NewConfig() *core.Config {
	conf := &core.Config{
		Debug:    true,
		TestMode: true,
		Env:      "TEST",
		Build:    "test",
		AppName:  "Darasa",

		SecretKey:                 "secret",
		DefaultFromEmail:          mail.Address{Address: "noreply@test.cd"},
		FrontendBaseURL:           "http://localhost:3000",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,

		ViewCacheSize: 64,
		ViewCacheTTL:  time.Minute,

		Server: core.ServerConfig{
			ShutdownTimeout:           5 * time.Second,
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	core.Conf = conf

	validatorsOnce.Do(func() {
		validate := validator.New()
		_en := en.New()
		uni := ut.New(_en, _en)
		translator, _ := uni.GetTranslator("en")
		core.InitValidators(validate, translator)
		user.InitValidators(validate, translator)
		schedule.InitValidators(validate, translator)
	})
	return conf
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	isBanned bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsBanned:  isBanned,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
