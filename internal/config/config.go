package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ShutdownTimeout    string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver"` // postgres | memory
		DSN    string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer     string `yaml:"issuer"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		CSRF struct {
			HeaderName string `yaml:"header_name"`
			TokenTTL   string `yaml:"token_ttl"`
		} `yaml:"csrf"`
		Verify struct {
			TTL string `yaml:"ttl"`
		} `yaml:"verify"`
		Reset struct {
			TTL string `yaml:"ttl"`
		} `yaml:"reset"`
	} `yaml:"auth"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Email struct {
		BaseURL     string `yaml:"base_url"`
		DefaultLang string `yaml:"default_lang"`
	} `yaml:"email"`

	WS struct {
		OriginRequired bool     `yaml:"origin_required"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SendQueueSize  int      `yaml:"send_queue_size"`
		WriteTimeout   string   `yaml:"write_timeout"`
		ReadIdle       string   `yaml:"read_idle"`
		HeartbeatEvery string   `yaml:"heartbeat_every"`
	} `yaml:"ws"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.JWT.SessionTTL == "" {
		c.JWT.SessionTTL = "15m"
	}
	if c.Auth.CSRF.HeaderName == "" {
		c.Auth.CSRF.HeaderName = "X-CSRF-Token"
	}
	if c.Auth.CSRF.TokenTTL == "" {
		c.Auth.CSRF.TokenTTL = "24h"
	}
	if c.Auth.Verify.TTL == "" {
		c.Auth.Verify.TTL = "48h"
	}
	if c.Auth.Reset.TTL == "" {
		c.Auth.Reset.TTL = "1h"
	}
	if c.Email.DefaultLang == "" {
		c.Email.DefaultLang = "es"
	}
	if c.WS.SendQueueSize == 0 {
		c.WS.SendQueueSize = 256
	}
	if c.WS.WriteTimeout == "" {
		c.WS.WriteTimeout = "5s"
	}
	if c.WS.ReadIdle == "" {
		c.WS.ReadIdle = "2m"
	}
	if c.WS.HeartbeatEvery == "" {
		c.WS.HeartbeatEvery = "30s"
	}
	return &c, nil
}

// MustDuration parsea una duración de config; panic sólo en defaults inválidos
// (error de programación, no de runtime).
func MustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("config: invalid duration %q", s))
	}
	return d
}
