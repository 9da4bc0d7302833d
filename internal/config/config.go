package config

import (
	"fmt"
	"strings"
	"time"

	"go-hrms/internal/shared/connection"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LeaveTypes lists the leave types whose allocation may be overridden with LEAVE_ALLOCATION_<TYPE>.
var LeaveTypes = []string{"casual", "sick", "earned", "maternity", "paternity"}

type Config struct {
	AppEnv       string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Database      connection.PostgresConfig
	DBAutoMigrate bool
	DBMaxRetries  int

	RedisAddr   string
	KafkaBroker string
	// ConsumerGroupID is the kafka consumer group of the notification consumer.
	ConsumerGroupID string

	JWTSecret string
	JWTExpiry time.Duration

	LogFile string

	// CORSAllowedOrigins is empty when browser clients are not served cross-origin.
	CORSAllowedOrigins []string

	// LeaveAllocation holds per-type overrides of the default annual entitlement. Absent types keep the default.
	LeaveAllocation map[string]int
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from the environment, with an optional .env file underneath.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "hrms")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "go-hrms-notification")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	for _, t := range LeaveTypes {
		v.SetDefault(allocationKey(t), 0)
	}
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:      v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		KafkaBroker: v.GetString("KAFKA_BROKER"),
		Database: connection.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		DBAutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		DBMaxRetries:    v.GetInt("DB_MAX_RETRIES"),
		ConsumerGroupID: v.GetString("KAFKA_CONSUMER_GROUP"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		LogFile:         v.GetString("LOG_FILE"),
		LeaveAllocation: map[string]int{},
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	if cfg.ReadTimeout, err = duration(v, "HTTP_READ_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = duration(v, "HTTP_WRITE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = duration(v, "HTTP_IDLE_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = duration(v, "JWT_EXPIRY"); err != nil {
		return nil, err
	}

	for _, t := range LeaveTypes {
		days := v.GetInt(allocationKey(t))
		if days < 0 {
			return nil, fmt.Errorf("%s must not be negative", allocationKey(t))
		}
		if days > 0 {
			cfg.LeaveAllocation[t] = days
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-only-insecure-secret"
	}
	if cfg.DBMaxRetries < 1 {
		cfg.DBMaxRetries = 1
	}

	return cfg, nil
}

func allocationKey(leaveType string) string {
	return "LEAVE_ALLOCATION_" + strings.ToUpper(leaveType)
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
