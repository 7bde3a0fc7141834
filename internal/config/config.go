// Package config provides Viper-based configuration loading for the Solace
// battle engine and its tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/solace/internal/game/combat"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. Terminal front ends log
	// to a file so log lines do not interleave with battle text.
	Output string `mapstructure:"output"`
}

// StorageConfig selects where players, inventories and progress live.
type StorageConfig struct {
	// Backend is "memory" or "postgres".
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the optional Redis settings. When enabled, memory
// collection progress is kept in Redis instead of the storage backend.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces every key written.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BattleConfig holds the battle rules and driver pacing.
type BattleConfig struct {
	FleeChance          float64 `mapstructure:"flee_chance"`
	StatusDuration      int     `mapstructure:"status_duration"`
	DefaultStatusChance float64 `mapstructure:"default_status_chance"`
	HealReturnRatio     float64 `mapstructure:"heal_return_ratio"`
	Variance            float64 `mapstructure:"variance"`
	LevelStep           int     `mapstructure:"level_step"`
	PassiveHealAmount   int     `mapstructure:"passive_heal_amount"`
	// TimingTimeout bounds the timing check; an expired check counts as a miss.
	TimingTimeout time.Duration `mapstructure:"timing_timeout"`
	// PacingDelay is the pause between automatic battle steps.
	PacingDelay time.Duration `mapstructure:"pacing_delay"`
}

// Rules converts the configured numbers into combat rules.
func (b BattleConfig) Rules() combat.Rules {
	return combat.Rules{
		FleeChance:          b.FleeChance,
		StatusDuration:      b.StatusDuration,
		DefaultStatusChance: b.DefaultStatusChance,
		HealReturnRatio:     b.HealReturnRatio,
		Variance:            b.Variance,
		LevelStep:           b.LevelStep,
		PassiveHealAmount:   b.PassiveHealAmount,
	}
}

// ContentConfig locates the catalog and narration scripts.
type ContentConfig struct {
	// Dir overrides catalog files; empty uses the built-in catalog.
	Dir string `mapstructure:"dir"`
	// ScriptsDir holds *.lua narration hooks; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// LuaInstructionLimit bounds every script call; 0 means unlimited.
	LuaInstructionLimit int `mapstructure:"lua_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Battle   BattleConfig   `mapstructure:"battle"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants. Database settings are only
// checked when the postgres backend is selected, Redis settings only when
// Redis is enabled.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Redis.Enabled {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.LuaInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.lua_instruction_limit must be >= 0, got %d", c.Content.LuaInstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	if s.Backend != BackendMemory && s.Backend != BackendPostgres {
		return fmt.Errorf("storage.backend must be one of [memory, postgres], got %q", s.Backend)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if err := b.Rules().Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, "battle: "+line)
		}
	}
	if b.TimingTimeout <= 0 {
		errs = append(errs, "battle.timing_timeout must be > 0")
	}
	if b.PacingDelay < 0 {
		errs = append(errs, "battle.pacing_delay must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and
// environment variables only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with SOLACE_ prefix
	v.SetEnvPrefix("SOLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("storage.backend", BackendMemory)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "solace")
	v.SetDefault("database.password", "solace")
	v.SetDefault("database.name", "solace")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "solace")

	rules := combat.DefaultRules()
	v.SetDefault("battle.flee_chance", rules.FleeChance)
	v.SetDefault("battle.status_duration", rules.StatusDuration)
	v.SetDefault("battle.default_status_chance", rules.DefaultStatusChance)
	v.SetDefault("battle.heal_return_ratio", rules.HealReturnRatio)
	v.SetDefault("battle.variance", rules.Variance)
	v.SetDefault("battle.level_step", rules.LevelStep)
	v.SetDefault("battle.passive_heal_amount", rules.PassiveHealAmount)
	v.SetDefault("battle.timing_timeout", "3s")
	v.SetDefault("battle.pacing_delay", "600ms")

	v.SetDefault("content.dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.lua_instruction_limit", 100000)
}
