package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DEALFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App AppConfig
	DB  DBConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEALFLOW_APP_ENV" default:"dev"`
	Port         string `envconfig:"DEALFLOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DEALFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALFLOW_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"DEALFLOW_AUTO_MIGRATE" default:"false"`
	CORSOrigins  string `envconfig:"DEALFLOW_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the configured CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"DEALFLOW_DB_DSN"`

	Host     string `envconfig:"DEALFLOW_DB_HOST"`
	Port     int    `envconfig:"DEALFLOW_DB_PORT" default:"5432"`
	User     string `envconfig:"DEALFLOW_DB_USER"`
	Password string `envconfig:"DEALFLOW_DB_PASSWORD"`
	Name     string `envconfig:"DEALFLOW_DB_NAME"`
	SSLMode  string `envconfig:"DEALFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEALFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, "DEALFLOW_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "DEALFLOW_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "DEALFLOW_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("either DEALFLOW_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
