package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация приложения
type Config struct {
	Server            ServerConfig      `toml:"server"`
	Database          DatabaseConfig    `toml:"database"`
	Logs              LogsConfig        `toml:"logs"`
	Metrics           MetricsConfig     `toml:"metrics"`
	Auth              AuthConfig        `toml:"auth"`
	Scheduling        SchedulingConfig  `toml:"scheduling"`
	ConsultantService IntegrationConfig `toml:"consultant_service"`
	FeedbackService   IntegrationConfig `toml:"feedback_service"`
	RateLimit         RateLimitConfig   `toml:"rate_limit"`
	Events            EventsConfig      `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// SchedulingConfig горизонты бронирования и параметры пагинации
type SchedulingConfig struct {
	QuickHorizonDays    int `toml:"quick_horizon_days"`
	ExtendedHorizonDays int `toml:"extended_horizon_days"`
	DefaultPageSize     int `toml:"default_page_size"`
	MaxPageSize         int `toml:"max_page_size"`
}

type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	FailOpen      bool   `toml:"fail_open"`
}

type EventsConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

// Load читает конфигурацию из TOML-файла
// Переменные окружения (и .env, если есть) переопределяют секреты и адреса
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "consultation-service",
		},
		Scheduling: SchedulingConfig{
			QuickHorizonDays:    14,
			ExtendedHorizonDays: 90,
			DefaultPageSize:     8,
			MaxPageSize:         100,
		},
		ConsultantService: IntegrationConfig{Timeout: 5},
		FeedbackService:   IntegrationConfig{Timeout: 3},
		RateLimit: RateLimitConfig{
			Limit:         10,
			WindowSeconds: 60,
			FailOpen:      true,
		},
		Events: EventsConfig{Topic: "appointments.events"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RateLimit.RedisAddr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.Brokers = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}

	switch strings.ToLower(c.Database.Driver) {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required for postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required (or JWT_SECRET env)"))
	}

	s := c.Scheduling
	if s.QuickHorizonDays < 1 {
		errs = append(errs, errors.New("scheduling.quick_horizon_days must be positive"))
	}
	if s.ExtendedHorizonDays < s.QuickHorizonDays {
		errs = append(errs, errors.New("scheduling.extended_horizon_days must be >= quick_horizon_days"))
	}
	if s.DefaultPageSize < 1 || s.MaxPageSize < s.DefaultPageSize {
		errs = append(errs, errors.New("scheduling page sizes must satisfy 1 <= default_page_size <= max_page_size"))
	}

	if c.ConsultantService.URL == "" {
		errs = append(errs, errors.New("consultant_service.url is required"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			errs = append(errs, errors.New("rate_limit.redis_addr is required when rate limiting is enabled"))
		}
		if c.RateLimit.Limit < 1 || c.RateLimit.WindowSeconds < 1 {
			errs = append(errs, errors.New("rate_limit.limit and rate_limit.window_seconds must be positive"))
		}
	}

	if c.Events.Enabled && (c.Events.Brokers == "" || c.Events.Topic == "") {
		errs = append(errs, errors.New("events.brokers and events.topic are required when events are enabled"))
	}

	return errors.Join(errs...)
}
