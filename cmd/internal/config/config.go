package config

import (
	"fmt"
	"gatherbeat/cmd/internal/domain/entity"
	"gatherbeat/cmd/internal/domain/store"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// Config is read once at startup. There is no hot reload.
type Config struct {
	SpaceID      string `env:"GATHER_SPACE_ID" validate:"required"`
	GatherAPIKey string `env:"GATHER_API_KEY" validate:"required"`
	GatherAPIURL string `env:"GATHER_API_URL" envDefault:"https://api.gather.town/api/v2" validate:"required,url"`

	WakapiURL string `env:"WAKAPI_API_URL" validate:"required,url"`

	DBDriver      string `env:"DB_DRIVER" envDefault:"sqlite" validate:"oneof=sqlite mysql"`
	DBPath        string `env:"DB_PATH" envDefault:"database.db"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" envDefault:"10" validate:"min=1"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	MySQLHost     string `env:"MYSQL_HOST" validate:"required_if=DBDriver mysql"`
	MySQLUser     string `env:"MYSQL_USER" validate:"required_if=DBDriver mysql"`
	MySQLPassword string `env:"MYSQL_PASSWORD"`
	MySQLDatabase string `env:"MYSQL_DATABASE" validate:"required_if=DBDriver mysql"`

	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"60s" validate:"min=1s"`
	TickTimeout   time.Duration `env:"TICK_TIMEOUT"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	HeartbeatMode string        `env:"HEARTBEAT_MODE" envDefault:"batched" validate:"oneof=batched immediate"`
	Sentinels     []string      `env:"SENTINEL_NAMES" envDefault:"Recording" envSeparator:","`
	ProjectName   string        `env:"PROJECT_NAME" envDefault:"Gather Client"`
	BranchName    string        `env:"BRANCH_NAME" envDefault:"main"`

	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":7070"`
	AdminToken string `env:"ADMIN_TOKEN"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error off"`
	MachineID  int64  `env:"MACHINE_ID" envDefault:"1" validate:"min=0,max=1023"`
}

// Parse reads the process environment into a Config and validates it.
func Parse(validate *validator.Validate) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:      c.DBDriver,
		Path:        c.DBPath,
		DSN:         store.MySQLDSN(c.MySQLHost, c.MySQLUser, c.MySQLPassword, c.MySQLDatabase),
		MaxConns:    c.DBMaxConns,
		AutoMigrate: c.DBAutoMigrate,
	}
}

func (c *Config) HeartbeatMeta() entity.HeartbeatMeta {
	meta := entity.DefaultHeartbeatMeta()
	if c.ProjectName != "" {
		meta.Project = c.ProjectName
	}
	if c.BranchName != "" {
		meta.Branch = c.BranchName
	}
	return meta
}

func (c *Config) Lvl() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
