package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultEnvPath = "./configs/.env"

type Config struct {
	APIAddress string `env:"API_ADDRESS" env-default:":8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"INFO"`
	// memory or postgres
	Storage  string `env:"STORAGE" env-default:"memory"`
	Postgres Postgres
	// Actor used for requests that don't name an owner. 0 disables it
	DefaultUserID   int64  `env:"DEFAULT_USER_ID" env-default:"1"`
	DefaultUserName string `env:"DEFAULT_USER_NAME" env-default:"demo"`
	Roadmap         Roadmap
	Timezone        string `env:"TIMEZONE" env-default:"Local"`
}

type Postgres struct {
	Address  string `env:"POSTGRES_DB_ADDRESS" env-default:"localhost:5432"`
	Username string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB"`
}

type Roadmap struct {
	APIKey   string        `env:"GEMINI_API_KEY"`
	Model    string        `env:"GEMINI_MODEL" env-default:"gemini-pro"`
	Endpoint string        `env:"GEMINI_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout  time.Duration `env:"ROADMAP_TIMEOUT" env-default:"30s"`
}

// Load reads optional .env file (CONFIG_PATH or ./configs/.env) into the
// process environment and decodes the environment into Config.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultEnvPath
	}
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("loading envs error: " + err.Error())
		}
		slog.Debug("no env file, using process environment", slog.String("path", path))
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.New("reading envs error: " + err.Error())
	}
	if cfg.Storage != "memory" && cfg.Storage != "postgres" {
		return nil, errors.New("unknown STORAGE value: " + cfg.Storage)
	}
	return &cfg, nil
}

// Location resolves Timezone. Unknown zones fall back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, using local", slog.String("timezone", c.Timezone))
		return time.Local
	}
	return loc
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
