package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RECICLA"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "RECICLA_APP_ENV"
	EnvPort       = "RECICLA_APP_PORT"
	EnvDBPath     = "RECICLA_DB_PATH"
	EnvJWTSecret  = "RECICLA_JWT_SECRET"
	EnvJWTIssuer  = "RECICLA_JWT_ISSUER"
	EnvJWTExpMins = "RECICLA_JWT_EXPIRATION_MINUTES"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Password PasswordConfig
	Ledger   LedgerConfig
	Backup   BackupConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Ledger.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RECICLA_APP_ENV" required:"true"`
	Port         string `envconfig:"RECICLA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RECICLA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RECICLA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path        string `envconfig:"RECICLA_DB_PATH" default:"recicla.db"`
	AutoMigrate bool   `envconfig:"RECICLA_AUTO_MIGRATE" default:"true"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RECICLA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RECICLA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RECICLA_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RECICLA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RECICLA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RECICLA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RECICLA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RECICLA_ARGON_KEY_LEN" default:"32"`
}

// LedgerConfig carries the seeded/demo-mode policy the auditor enforces.
type LedgerConfig struct {
	Center      string `envconfig:"RECICLA_LEDGER_CENTER" default:"intermediario de reciclaje S.A.S"`
	PerUserCap  int    `envconfig:"RECICLA_LEDGER_PER_USER_CAP" default:"5"`
	SeedUserIDs []uint `envconfig:"RECICLA_LEDGER_SEED_USER_IDS" default:"2,3,4"`
	QuantityMin int    `envconfig:"RECICLA_LEDGER_QUANTITY_MIN" default:"1"`
	QuantityMax int    `envconfig:"RECICLA_LEDGER_QUANTITY_MAX" default:"8"`
}

// ExpectedTotal is the record count a freshly seeded ledger must hold.
func (l LedgerConfig) ExpectedTotal() int {
	return l.PerUserCap * len(l.SeedUserIDs)
}

// Validate rejects ledger policy values no maintenance pass could satisfy.
func (l LedgerConfig) Validate() error {
	if l.PerUserCap <= 0 {
		return fmt.Errorf("ledger per-user cap must be positive, got %d", l.PerUserCap)
	}
	if len(l.SeedUserIDs) == 0 {
		return fmt.Errorf("ledger seed user ids must not be empty")
	}
	if l.QuantityMin < 1 || l.QuantityMax < l.QuantityMin {
		return fmt.Errorf("invalid ledger quantity range [%d,%d]", l.QuantityMin, l.QuantityMax)
	}
	if strings.TrimSpace(l.Center) == "" {
		return fmt.Errorf("ledger center label must not be empty")
	}
	return nil
}

type BackupConfig struct {
	Dir string `envconfig:"RECICLA_BACKUP_DIR" default:"backups_db"`
}
