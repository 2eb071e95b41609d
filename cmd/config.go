package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPPort    string
	StoreDriver string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	LogLevel  string
	LogFormat string

	ShopRadiusKm       float64
	DispatchRadiusKm   float64
	NotifyCooldown     time.Duration
	DispatchTrigger    string
	RedispatchSchedule string
	FeedRetention      time.Duration

	KafkaBrokers          []string
	KafkaConsumerGroup    string
	KafkaOrderEventsTopic string
	KafkaLocationTopic    string
}

// LoadConfig reads envFile if it exists, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "dispatch")
	v.SetDefault("DB_PASSWORD", "dispatch")
	v.SetDefault("DB_NAME", "dispatch")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHOP_RADIUS_KM", 10.0)
	v.SetDefault("DISPATCH_RADIUS_KM", 5.0)
	v.SetDefault("NOTIFY_COOLDOWN", "2m")
	v.SetDefault("DISPATCH_TRIGGER", "ready")
	v.SetDefault("REDISPATCH_SCHEDULE", "*/30 * * * * *")
	v.SetDefault("FEED_RETENTION", "10m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "dispatch")
	v.SetDefault("KAFKA_ORDER_EVENTS_TOPIC", "order-events")
	v.SetDefault("KAFKA_LOCATION_TOPIC", "")

	cfg := Config{
		HTTPPort:              v.GetString("HTTP_PORT"),
		StoreDriver:           strings.ToLower(v.GetString("STORE_DRIVER")),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBUser:                v.GetString("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBName:                v.GetString("DB_NAME"),
		DBSslMode:             v.GetString("DB_SSLMODE"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		ShopRadiusKm:          v.GetFloat64("SHOP_RADIUS_KM"),
		DispatchRadiusKm:      v.GetFloat64("DISPATCH_RADIUS_KM"),
		NotifyCooldown:        v.GetDuration("NOTIFY_COOLDOWN"),
		DispatchTrigger:       v.GetString("DISPATCH_TRIGGER"),
		RedispatchSchedule:    v.GetString("REDISPATCH_SCHEDULE"),
		FeedRetention:         v.GetDuration("FEED_RETENTION"),
		KafkaBrokers:          splitList(v.GetString("KAFKA_BROKERS")),
		KafkaConsumerGroup:    v.GetString("KAFKA_CONSUMER_GROUP"),
		KafkaOrderEventsTopic: v.GetString("KAFKA_ORDER_EVENTS_TOPIC"),
		KafkaLocationTopic:    v.GetString("KAFKA_LOCATION_TOPIC"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.StoreDriver))
	}
	if c.NotifyCooldown <= 0 {
		errs = append(errs, errors.New("NOTIFY_COOLDOWN must be a positive duration"))
	}
	if c.FeedRetention <= 0 {
		errs = append(errs, errors.New("FEED_RETENTION must be a positive duration"))
	}
	if c.KafkaLocationTopic != "" && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_LOCATION_TOPIC requires KAFKA_BROKERS"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
