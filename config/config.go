package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Stripe  StripeConfig
	Gemini  GeminiConfig
	Kafka   KafkaConfig
	Booking BookingConfig
	Upload  UploadConfig
}

type AppConfig struct {
	Port         string
	Env          string
	Timezone     string
	BaseURL      string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the key/value connection string used by gorm.
func (c DBConfig) DSN(timezone string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, timezone,
	)
}

// MigrationURL returns the pgx5:// URL understood by golang-migrate.
// Credentials and database name are escaped.
func (c DBConfig) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type KafkaConfig struct {
	Brokers          []string
	AppointmentTopic string
}

type BookingConfig struct {
	SlotLockTTL time.Duration
}

type UploadConfig struct {
	MaxBytes int64
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// .env is optional, plain environment variables are enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_READ_TIMEOUT", "15s")
	v.SetDefault("APP_WRITE_TIMEOUT", "60s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "mediconnect")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	v.SetDefault("STRIPE_CURRENCY", "usd")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("KAFKA_APPOINTMENT_TOPIC", "appointments")

	v.SetDefault("BOOKING_SLOT_LOCK_TTL", "10s")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
}

func fromViper(v *viper.Viper) (*Config, error) {
	if _, err := time.LoadLocation(v.GetString("APP_TIMEZONE")); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", v.GetString("APP_TIMEZONE"), err)
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	lockTTL, err := time.ParseDuration(v.GetString("BOOKING_SLOT_LOCK_TTL"))
	if err != nil || lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}

	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	config := &Config{
		App: AppConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          v.GetString("APP_ENV"),
			Timezone:     v.GetString("APP_TIMEZONE"),
			BaseURL:      strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			ReadTimeout:  v.GetDuration("APP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("APP_WRITE_TIMEOUT"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("STRIPE_SECRET_KEY"),
			Currency:  strings.ToLower(v.GetString("STRIPE_CURRENCY")),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Kafka: KafkaConfig{
			Brokers:          brokers,
			AppointmentTopic: v.GetString("KAFKA_APPOINTMENT_TOPIC"),
		},
		Booking: BookingConfig{
			SlotLockTTL: lockTTL,
		},
		Upload: UploadConfig{
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
	}

	return config, nil
}

// Location returns the time zone used to decide what "today" means for bookings.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
