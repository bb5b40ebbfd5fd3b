package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns      int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	JWTSecret       string        `env:"JWT_SECRET"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
