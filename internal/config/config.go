package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	// function runtimes do not always ship a zoneinfo database
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Configuration is read from the environment with the CARDAPIO_ prefix.
	The first underscore after the prefix separates the section from the key:

	  CARDAPIO_SERVER_PORT          -> server.port
	  CARDAPIO_DATABASE_URI         -> database.uri
	  CARDAPIO_BUSINESS_DELIVERY_FEE -> business.delivery_fee

	A .env file in the working directory is loaded first when present.
*/

const envPrefix = "CARDAPIO_"

type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log"`
	Business BusinessConfig `koanf:"business" validate:"required"`
	Assets   AssetsConfig   `koanf:"assets"`
	Function FunctionConfig `koanf:"function"`
	Router   RouterConfig   `koanf:"router"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=development staging production test"`
}

type ServerConfig struct {
	Port               string `koanf:"port" validate:"required,numeric"`
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
	APIPrefix          string `koanf:"api_prefix"`
	BodyLimitBytes     int64  `koanf:"body_limit_bytes" validate:"gt=0"`
	ShutdownTimeout    int    `koanf:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=mongo memory"`
	// URI may be empty at load time; the store reports it on first use.
	URI            string `koanf:"uri"`
	Name           string `koanf:"name" validate:"required"`
	ConnectTimeout int    `koanf:"connect_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// BusinessConfig holds the values used when the configuration singleton
// has not been saved yet.
type BusinessConfig struct {
	Name            string  `koanf:"name" validate:"required"`
	Timezone        string  `koanf:"timezone" validate:"required"`
	DeliveryFee     float64 `koanf:"delivery_fee" validate:"gte=0"`
	PrepTimeMinutes int     `koanf:"prep_time_minutes" validate:"gt=0"`
}

type AssetsConfig struct {
	Dir          string `koanf:"dir"`
	PublicPrefix string `koanf:"public_prefix" validate:"required"`
}

type FunctionConfig struct {
	Name string `koanf:"name"`
	Port string `koanf:"port"`
}

type RouterConfig struct {
	Prefix string `koanf:"prefix"`
}

func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:            "8080",
			APIPrefix:       "/api",
			BodyLimitBytes:  10 << 20,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:         "mongo",
			Name:           "cardapio",
			ConnectTimeout: 10,
		},
		Log: LogConfig{Level: "info"},
		Business: BusinessConfig{
			Name:            "Cardápio Online",
			Timezone:        "America/Sao_Paulo",
			DeliveryFee:     0,
			PrepTimeMinutes: 30,
		},
		Assets: AssetsConfig{PublicPrefix: "/images/products"},
		Router: RouterConfig{Prefix: "/.netlify/functions/router"},
	}
}

// Load reads the environment over the defaults and validates the result.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Database.URI == "" {
		for _, name := range []string{"MONGO_PUBLIC_URL", "MONGO_URL", "MONGODB_URI"} {
			if v := os.Getenv(name); v != "" {
				cfg.Database.URI = v
				break
			}
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Business.Timezone); err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", cfg.Business.Timezone, err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}

// AllowedOrigins splits the comma separated origin list. Empty means any.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (d DatabaseConfig) Timeout() time.Duration {
	return time.Duration(d.ConnectTimeout) * time.Second
}
