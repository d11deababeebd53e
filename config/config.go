package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Booking    BookingConfig    `yaml:"booking"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	IdentityHeader  string  `yaml:"identity_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BookingConfig controls meal booking eligibility windows. Cutoffs are
// "HH:MM" strings keyed by meal type and apply to same-day slots only,
// evaluated in the venue's timezone.
type BookingConfig struct {
	Timezone    string            `yaml:"timezone"`
	Cutoffs     map[string]string `yaml:"cutoffs"`
	EventBuffer int               `yaml:"event_buffer"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// DefaultCutoffs are the same-day booking cutoffs used when the config
// file does not override them.
var DefaultCutoffs = map[string]string{
	"breakfast": "10:00",
	"lunch":     "14:00",
	"snacks":    "17:00",
	"dinner":    "21:00",
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.IdentityHeader == "" {
		cfg.Server.IdentityHeader = "X-Identity"
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "Asia/Kolkata"
	}
	if cfg.Booking.Cutoffs == nil {
		cfg.Booking.Cutoffs = map[string]string{}
	}
	for mealType, cutoff := range DefaultCutoffs {
		if _, ok := cfg.Booking.Cutoffs[mealType]; !ok {
			cfg.Booking.Cutoffs[mealType] = cutoff
		}
	}
	if cfg.Booking.EventBuffer <= 0 {
		cfg.Booking.EventBuffer = 64
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
