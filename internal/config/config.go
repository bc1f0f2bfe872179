package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvConfigPath = "LA2GO_BM_CONFIG"
	EnvDBPassword = "LA2GO_BM_DB_PASSWORD"
	EnvLogLevel   = "LA2GO_BM_LOG_LEVEL"
)

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// LogConfig configures the optional rotating log file.
type LogConfig struct {
	File       string `yaml:"file"`         // empty = stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`  // rotate after this size
	MaxAgeDays int    `yaml:"max_age_days"` // delete rotated files older than this
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// Account grants permissions to a player name. A player joining under an
// account name must present the password matching PasswordHash (bcrypt).
type Account struct {
	PasswordHash string   `yaml:"password_hash"`
	Permissions  []string `yaml:"permissions"`
}

// CommandRate limits chat commands per player session.
type CommandRate struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// GameServer holds all configuration for the host process.
type GameServer struct {
	// Network (player gateway)
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string    `yaml:"log_level"`
	Log      LogConfig `yaml:"log"`

	// WorldData is the YAML file with assets, props, vehicles and zones.
	WorldData string `yaml:"world_data"`

	// Accounts maps reserved player names (case-insensitive) to credentials
	// and permissions. Any other name joins without permissions.
	Accounts map[string]Account `yaml:"accounts"`

	CommandRate CommandRate `yaml:"command_rate"`

	Database DatabaseConfig `yaml:"database"`

	Blackmarket Blackmarket `yaml:"blackmarket"`
}

// DefaultGameServer returns GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress: "0.0.0.0",
		Port:        7777,
		LogLevel:    "info",
		Log: LogConfig{
			MaxSizeMB:  100,
			MaxAgeDays: 14,
			MaxBackups: 5,
			Compress:   true,
		},
		WorldData:   "config/world.yaml",
		Accounts:    map[string]Account{},
		CommandRate: CommandRate{
			PerSecond: 2,
			Burst:     5,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "la2go",
			Password: "la2go",
			DBName:   "la2go",
			SSLMode:  "disable",
		},
		Blackmarket: DefaultBlackmarket(),
	}
}

// AccountFor returns the account reserved for a player name.
func (c GameServer) AccountFor(name string) (Account, bool) {
	for k, acc := range c.Accounts {
		if strings.EqualFold(k, name) {
			return acc, true
		}
	}
	return Account{}, false
}

// Validate checks host settings. Every account needs a password hash, otherwise
// anyone could join under its name.
func (c GameServer) Validate() error {
	var errs []error
	for name, acc := range c.Accounts {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("accounts: empty name"))
		}
		if acc.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("accounts.%s: password_hash is required", name))
		}
	}
	errs = append(errs, c.Blackmarket.Validate())
	return errors.Join(errs...)
}

// LoadGameServer loads game server config from a YAML file.
// If the file doesn't exist, returns defaults. Environment overrides are applied last.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

func applyEnv(cfg *GameServer) {
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
