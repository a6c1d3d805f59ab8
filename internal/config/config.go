// Package config loads process settings from defaults, an optional .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Modes
const (
	ModeCentral = "central"
	ModeKiosk   = "kiosk"
)

type Config struct {
	Mode string
	Addr string

	DatabasePath    string
	LocalStorePath  string
	LocalStoreQuota int64

	RemoteURL     string
	RemoteToken   string
	RemoteTimeout time.Duration

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	SyncInterval time.Duration
	QueueRetain  int
	Timezone     string

	AdminUsername string
	AdminPassword string

	GinMode string
}

func defaults(v *viper.Viper) {
	v.SetDefault("MODE", ModeCentral)
	v.SetDefault("ADDR", ":8008")
	v.SetDefault("DATABASE_PATH", "attendance.db")
	v.SetDefault("LOCAL_STORE_PATH", "kiosk.db")
	v.SetDefault("LOCAL_STORE_QUOTA", 5<<20)
	v.SetDefault("REMOTE_URL", "")
	v.SetDefault("REMOTE_TOKEN", "")
	v.SetDefault("REMOTE_TIMEOUT", 10*time.Second)
	v.SetDefault("JWT_SECRET", "development-insecure-secret-change-me")
	v.SetDefault("JWT_ISSUER", "school-attendance-api")
	v.SetDefault("JWT_AUDIENCE", "school-attendance-clients")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("SYNC_INTERVAL", 5*time.Second)
	v.SetDefault("QUEUE_RETAIN", 100)
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("GIN_MODE", "debug")
}

// Load reads envFile (skipped when empty or missing) and then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Mode:            strings.ToLower(strings.TrimSpace(v.GetString("MODE"))),
		Addr:            v.GetString("ADDR"),
		DatabasePath:    v.GetString("DATABASE_PATH"),
		LocalStorePath:  v.GetString("LOCAL_STORE_PATH"),
		LocalStoreQuota: v.GetInt64("LOCAL_STORE_QUOTA"),
		RemoteURL:       strings.TrimSpace(v.GetString("REMOTE_URL")),
		RemoteToken:     v.GetString("REMOTE_TOKEN"),
		RemoteTimeout:   v.GetDuration("REMOTE_TIMEOUT"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		JWTAudience:     v.GetString("JWT_AUDIENCE"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		SyncInterval:    v.GetDuration("SYNC_INTERVAL"),
		QueueRetain:     v.GetInt("QUEUE_RETAIN"),
		Timezone:        v.GetString("TIMEZONE"),
		AdminUsername:   v.GetString("ADMIN_USERNAME"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		GinMode:         v.GetString("GIN_MODE"),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeCentral:
	case ModeKiosk:
		if c.RemoteURL == "" {
			return errors.New("config: REMOTE_URL is required in kiosk mode")
		}
	default:
		return fmt.Errorf("config: unknown MODE %q", c.Mode)
	}
	if c.SyncInterval <= 0 {
		return errors.New("config: SYNC_INTERVAL must be positive")
	}
	if c.QueueRetain < 0 {
		return errors.New("config: QUEUE_RETAIN must not be negative")
	}
	if c.LocalStoreQuota < 0 {
		return errors.New("config: LOCAL_STORE_QUOTA must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
