package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds everything a single run needs. Values come from an optional
// YAML file, overridden by TB_* environment variables, with defaults matching
// the stock deployment.
type Config struct {
	LogLevel    zerolog.Level
	ComposePath string
	NotifyTo    string
	SMTP        SMTP
}

// SMTP is the outbound mail transport used for status notifications.
type SMTP struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

type fileConfig struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Compose struct {
		Path string `yaml:"path"`
	} `yaml:"compose"`
	Notify struct {
		To string `yaml:"to"`
	} `yaml:"notify"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		From     string `yaml:"from"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"smtp"`
}

// Load reads the config file at path (missing file is fine) and applies
// environment overrides on top.
func Load(path string) Config {
	cfg := Config{
		LogLevel:    zerolog.InfoLevel,
		ComposePath: "docker-compose.yml",
		NotifyTo:    "admin@example.com",
		SMTP: SMTP{
			Host: "smtp.example.com",
			Port: 587,
			From: "noreply@example.com",
		},
	}

	if b, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(b, &fc); err == nil {
			if fc.Logging.Level != "" {
				if l, err := zerolog.ParseLevel(fc.Logging.Level); err == nil {
					cfg.LogLevel = l
				}
			}
			if fc.Compose.Path != "" {
				cfg.ComposePath = fc.Compose.Path
			}
			if fc.Notify.To != "" {
				cfg.NotifyTo = fc.Notify.To
			}
			if fc.SMTP.Host != "" {
				cfg.SMTP.Host = fc.SMTP.Host
			}
			if fc.SMTP.Port > 0 {
				cfg.SMTP.Port = fc.SMTP.Port
			}
			if fc.SMTP.From != "" {
				cfg.SMTP.From = fc.SMTP.From
			}
			if fc.SMTP.Username != "" {
				cfg.SMTP.Username = fc.SMTP.Username
			}
			if fc.SMTP.Password != "" {
				cfg.SMTP.Password = fc.SMTP.Password
			}
		}
	}

	if v := os.Getenv("TB_LOG"); v != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			cfg.LogLevel = l
		}
	}
	if v := os.Getenv("TB_COMPOSE_PATH"); v != "" {
		cfg.ComposePath = v
	}
	if v := os.Getenv("TB_NOTIFY_TO"); v != "" {
		cfg.NotifyTo = v
	}
	if v := os.Getenv("TB_SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("TB_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.SMTP.Port = p
		}
	}
	if v := os.Getenv("TB_SMTP_FROM"); v != "" {
		cfg.SMTP.From = v
	}
	if v := os.Getenv("TB_SMTP_USER"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("TB_SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}

	return cfg
}
