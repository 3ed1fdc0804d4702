package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 30 * time.Second

	configPathEnv = "FAKENEWS_CONFIG"
	apiURLEnv     = "FAKENEWS_API_URL"
	apiTimeoutEnv = "FAKENEWS_API_TIMEOUT"
	listenAddrEnv = "FAKENEWS_ADDR"
	ginModeEnv    = "GIN_MODE"
	logLevelEnv   = "LOG_LEVEL"
	logFormatEnv  = "LOG_FORMAT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Predictor PredictorConfig `yaml:"predictor"`
	Server    ServerConfig    `yaml:"server"`
	Sessions  SessionConfig   `yaml:"sessions"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PredictorConfig describes how to reach the classification service.
type PredictorConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP surface of the UI.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	Mode         string   `yaml:"mode"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

// SessionConfig bounds how long and how many UI sessions are kept in memory.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	MaxSessions   int           `yaml:"maxSessions"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiURLEnv); v != "" {
		c.Predictor.BaseURL = v
	}

	if v := os.Getenv(apiTimeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("config: invalid %s=%q, keeping %s", apiTimeoutEnv, v, c.Predictor.Timeout)
		} else {
			c.Predictor.Timeout = d
		}
	}

	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(ginModeEnv); v != "" {
		c.Server.Mode = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Predictor.BaseURL != "" {
		base.Predictor.BaseURL = override.Predictor.BaseURL
	}
	if override.Predictor.Timeout > 0 {
		base.Predictor.Timeout = override.Predictor.Timeout
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.Mode != "" {
		base.Server.Mode = override.Server.Mode
	}
	if len(override.Server.AllowOrigins) > 0 {
		base.Server.AllowOrigins = override.Server.AllowOrigins
	}

	if override.Sessions.TTL > 0 {
		base.Sessions.TTL = override.Sessions.TTL
	}
	if override.Sessions.SweepInterval > 0 {
		base.Sessions.SweepInterval = override.Sessions.SweepInterval
	}
	if override.Sessions.MaxSessions > 0 {
		base.Sessions.MaxSessions = override.Sessions.MaxSessions
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Predictor: PredictorConfig{BaseURL: defaultBaseURL, Timeout: defaultTimeout},
		Server: ServerConfig{
			Addr:         ":8080",
			Mode:         "release",
			AllowOrigins: []string{"*"},
		},
		Sessions: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   10000,
		},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}
