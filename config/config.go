package config

import (
	"fmt"
	"os"

	"github.com/dkuznetsov91/busbooking/internal/policy"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Policy   PolicyConfig   `yaml:"policy"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address         string  `yaml:"address"`
	SwaggerDir      string  `yaml:"swagger_dir"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// PolicyConfig is the single source for both policy windows; check-in and
// cancellation cutoffs cannot drift apart across files.
type PolicyConfig struct {
	CheckInEnabled          *bool   `yaml:"checkin_enabled"`
	CheckInStartHoursBefore int     `yaml:"checkin_start_hours_before"`
	CheckInEndHoursBefore   int     `yaml:"checkin_end_hours_before"`
	CancellationEnabled     *bool   `yaml:"cancellation_enabled"`
	CancellationMinHours    float64 `yaml:"cancellation_min_hours_before"`
}

// Policy converts the yaml section into the engine's config, falling back
// to the defaults for any field the section leaves unset.
func (p PolicyConfig) Policy() policy.Config {
	cfg := policy.DefaultConfig()
	if p.CheckInEnabled != nil {
		cfg.CheckIn.Enabled = *p.CheckInEnabled
	}
	if p.CancellationEnabled != nil {
		cfg.Cancellation.Enabled = *p.CancellationEnabled
	}
	if p.CheckInStartHoursBefore > 0 {
		cfg.CheckIn.StartHoursBefore = p.CheckInStartHoursBefore
	}
	if p.CheckInEndHoursBefore > 0 {
		cfg.CheckIn.EndHoursBefore = p.CheckInEndHoursBefore
	}
	if p.CancellationMinHours > 0 {
		cfg.Cancellation.MinHoursBefore = p.CancellationMinHours
	}
	return cfg
}

type BookingConfig struct {
	TripsCacheTTLSeconds int `yaml:"trips_cache_ttl_seconds"`
	SubmitLockTTLMinutes int `yaml:"submit_lock_ttl_minutes"`
}

type WorkerConfig struct {
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
