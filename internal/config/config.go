package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:"storefront.db"`

	JWTSecret       string        `env:"JWT_SECRET,required"` // base64, >= 32 decoded bytes
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" envDefault:"168h"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`

	// Login limiter; counters live in Redis when RedisURL is set, in memory otherwise.
	RedisURL        string        `env:"REDIS_URL"`
	LoginRateMax    int           `env:"LOGIN_RATE_MAX" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"10m"`

	DoSeed bool `env:"DO_SEED" envDefault:"false"`
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c Config) UseRedis() bool { return c.RedisURL != "" }

// Load reads the process environment.
func Load() (*Config, error) {
	return load(env.ToMap(os.Environ()))
}

func load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	if cfg.LoginRateMax <= 0 || cfg.LoginRateWindow <= 0 {
		return nil, fmt.Errorf("login rate limit must be positive")
	}
	origins := cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins
	return cfg, nil
}
