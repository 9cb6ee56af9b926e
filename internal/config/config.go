package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Game    GameConfig    `yaml:"game"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP/WebSocket listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GameConfig holds match settings
type GameConfig struct {
	MoveTimeout string `yaml:"move_timeout"` // soft per-move limit, e.g. "2s"
	BoardSeed   int64  `yaml:"board_seed"`   // 0 means a fresh seed per room
}

// MoveTimeoutDuration parses the configured move limit.
func (g GameConfig) MoveTimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(g.MoveTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid move_timeout %q: %w", g.MoveTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("move_timeout %q must be positive", g.MoveTimeout)
	}
	return d, nil
}

// AuthConfig holds reservation token settings
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	Issuer         string `yaml:"issuer"`
	ReservationTTL string `yaml:"reservation_ttl"` // e.g. "10m"
}

// ReservationTTLDuration parses the reservation lifetime.
func (a AuthConfig) ReservationTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(a.ReservationTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid reservation_ttl %q: %w", a.ReservationTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("reservation_ttl %q must be positive", a.ReservationTTL)
	}
	return d, nil
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address           string `yaml:"address"`
	Password          string `yaml:"password"`
	DB                int    `yaml:"db"`
	ReservationPrefix string `yaml:"reservation_prefix"`
}

// ArchiveConfig holds the finished-game store settings
type ArchiveConfig struct {
	Path string `yaml:"path"` // SQLite file; empty disables archiving
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	applyDefaults(&cfg)

	if _, err := cfg.Game.MoveTimeoutDuration(); err != nil {
		return nil, err
	}
	if _, err := cfg.Auth.ReservationTTLDuration(); err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret must be set")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Game.MoveTimeout == "" {
		cfg.Game.MoveTimeout = "2s"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "penguins-server"
	}
	if cfg.Auth.ReservationTTL == "" {
		cfg.Auth.ReservationTTL = "10m"
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Redis.ReservationPrefix == "" {
		cfg.Redis.ReservationPrefix = "reservation:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
