package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT" envDefault:"3306"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"job_board"`
}

func (c DBConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Env struct {
	AppAddr            string   `env:"APP_ADDR" envDefault:":8080"`
	GinMode            string   `env:"GIN_MODE"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret          string   `env:"JWT_SECRET"`
	UploadDir          string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadSize      int64    `env:"MAX_UPLOAD_SIZE" envDefault:"5242880"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	DB                 DBConfig `envPrefix:"DB_"`
}

const (
	releaseMode  = "release"
	devJWTSecret = "dev-only-jwt-secret"
)

var ErrJWTSecretRequired = errors.New("JWT_SECRET must be set in release mode")

// LoadEnv reads .env when present, then the process environment. Outside
// release mode a missing JWT_SECRET falls back to a fixed development value.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if e.JWTSecret == "" || e.JWTSecret == devJWTSecret {
		if e.GinMode == releaseMode {
			return Env{}, ErrJWTSecretRequired
		}
		e.JWTSecret = devJWTSecret
	}
	return e, nil
}

// ClientEnv configures jobboardctl and other API consumers.
type ClientEnv struct {
	BaseURL  string        `env:"JOBBOARD_BASE_URL" envDefault:"http://localhost:8080/api"`
	Token    string        `env:"JOBBOARD_TOKEN"`
	Timeout  time.Duration `env:"JOBBOARD_TIMEOUT" envDefault:"15s"`
	FreshFor time.Duration `env:"JOBBOARD_FRESH_FOR" envDefault:"30s"`
}

func LoadClientEnv() (ClientEnv, error) {
	_ = godotenv.Load()

	var e ClientEnv
	if err := env.Parse(&e); err != nil {
		return ClientEnv{}, fmt.Errorf("parse client env: %w", err)
	}
	return e, nil
}
