package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/spf13/viper"
)

// Conf is the process-wide configuration. It is set once by NewConfig.
var Conf *Config

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey                 string
		DefaultFromEmail          mail.Address
		FrontendBaseURL           string
		WorkDir                   string
		PasswordResetTimeoutDelta time.Duration

		// ProtectedAdminEmails lists super admin accounts that can never be
		// demoted or banned. Comma-separated in the environment; trimmed and
		// lower-cased here.
		ProtectedAdminEmails []string

		ViewCacheSize int
		ViewCacheTTL  time.Duration

		RollbarToken   string
		SendgridAPIKey string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads the app configuration from the environment (and an optional
// config/.env.<env> file) and validates it. It also sets the global Conf.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#94y=x&abqcd8-fhu20_lky7gp(4-w2n5sr&+hfc%9hu$z2fg")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("protectedAdminEmails", "")
	v.SetDefault("viewCacheSize", 128)
	v.SetDefault("viewCacheTTL", 5*time.Minute)
	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "darasa")
	v.SetDefault("dbUser", "darasa")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:    v.GetBool("debug"),
		TestMode: env == "TEST",
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),

		SecretKey:                 v.GetString("secretKey"),
		DefaultFromEmail:          mail.Address{Address: v.GetString("defaultFromEmail")},
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		WorkDir:                   wd,
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),

		ProtectedAdminEmails: SplitEmailList(v.GetString("protectedAdminEmails")),

		ViewCacheSize: v.GetInt("viewCacheSize"),
		ViewCacheTTL:  v.GetDuration("viewCacheTTL"),

		RollbarToken:   v.GetString("rollbarToken"),
		SendgridAPIKey: v.GetString("sendgridApiKey"),

		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
	}

	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.AppName, "appName"),
		vala.StringNotEmpty(conf.SecretKey, "secretKey"),
		vala.StringNotEmpty(conf.Database.Engine, "dbEngine"),
		vala.StringNotEmpty(conf.Database.Name, "dbName"),
		vala.StringNotEmpty(conf.Database.Host, "dbHost"),
		vala.GreaterThan(conf.Database.Port, 0, "dbPort"),
	).Check()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	Conf = conf
	return conf
}

// SplitEmailList parses a comma-separated email list, dropping empty entries.
// Each entry is trimmed and lower-cased.
func SplitEmailList(s string) []string {
	parts := strings.Split(s, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = CleanString(p, true /* lower */); p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}

func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return wd
}
