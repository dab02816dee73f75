package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server              ServerConfig
	Database            DatabaseConfig
	Redis               RedisConfig
	Kafka               KafkaConfig
	NotificationService ServiceConfig
	Auth                AuthConfig
	Catalog             CatalogConfig
	Features            FeatureFlags
	Log                 LogConfig
	Tracing             TracingConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	ReviewsTopic  string
	ConsumerGroup string
}

type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
	APIKey  string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// CatalogConfig controls product listing pagination.
type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type FeatureFlags struct {
	EnableOrderEvents   bool
	EnableOrderCaching  bool
	EnableNotifications bool
	EnableRatingWorker  bool
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// lookupFunc resolves a setting by its environment variable name.
type lookupFunc func(key string) string

// Load reads the configuration from the environment.
func Load() *Config {
	return load(os.Getenv)
}

// LoadFile reads settings from a YAML file of environment variable names
// to values. Variables set in the environment take precedence.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
			values[key] = strings.Join(parts, ",")
		default:
			values[key] = fmt.Sprint(v)
		}
	}

	return load(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return values[key]
	}), nil
}

func load(env lookupFunc) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           env.getInt("SERVER_PORT", 8084),
			ReadTimeout:    env.getDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   env.getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: env.getList("SERVER_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         env.getString("DB_HOST", "localhost"),
			Port:         env.getInt("DB_PORT", 5432),
			User:         env.getString("DB_USER", "acme"),
			Password:     env.getString("DB_PASSWORD", "acme"),
			Name:         env.getString("DB_NAME", "acme_storefront"),
			SSLMode:      env.getString("DB_SSLMODE", "disable"),
			MaxOpenConns: env.getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: env.getInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  env.getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     env.getString("REDIS_HOST", "localhost"),
			Port:     env.getInt("REDIS_PORT", 6379),
			Password: env.getString("REDIS_PASSWORD", ""),
			DB:       env.getInt("REDIS_DB", 0),
			TTL:      env.getDuration("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:       env.getList("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrdersTopic:   env.getString("KAFKA_ORDERS_TOPIC", "storefront.orders"),
			ReviewsTopic:  env.getString("KAFKA_REVIEWS_TOPIC", "storefront.reviews"),
			ConsumerGroup: env.getString("KAFKA_CONSUMER_GROUP", "storefront-rating-worker"),
		},
		NotificationService: ServiceConfig{
			BaseURL: env.getString("NOTIFICATION_SERVICE_URL", "http://localhost:8085"),
			Timeout: env.getDuration("NOTIFICATION_SERVICE_TIMEOUT", 10*time.Second),
			APIKey:  env.getString("NOTIFICATION_SERVICE_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret: env.getString("JWT_SECRET", "change-me"),
			Issuer:    env.getString("JWT_ISSUER", ""),
		},
		Catalog: CatalogConfig{
			DefaultPageSize: env.getInt("CATALOG_PAGE_SIZE", 10),
			MaxPageSize:     env.getInt("CATALOG_MAX_PAGE_SIZE", 100),
		},
		Features: FeatureFlags{
			EnableOrderEvents:   env.getBool("ENABLE_ORDER_EVENTS", true),
			EnableOrderCaching:  env.getBool("ENABLE_ORDER_CACHING", true),
			EnableNotifications: env.getBool("ENABLE_NOTIFICATIONS", true),
			EnableRatingWorker:  env.getBool("ENABLE_RATING_WORKER", true),
		},
		Log: LogConfig{
			Level:  env.getString("LOG_LEVEL", "info"),
			Format: env.getString("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Enabled:     env.getBool("TRACING_ENABLED", false),
			ServiceName: env.getString("TRACING_SERVICE_NAME", "storefront-service"),
		},
	}
}

func (env lookupFunc) getString(key, defaultValue string) string {
	if value := env(key); value != "" {
		return value
	}
	return defaultValue
}

func (env lookupFunc) getInt(key string, defaultValue int) int {
	if value := env(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (env lookupFunc) getBool(key string, defaultValue bool) bool {
	if value := env(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDuration accepts Go duration strings ("30s") or a bare number of seconds.
func (env lookupFunc) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := env(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func (env lookupFunc) getList(key string, defaultValue []string) []string {
	value := env(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
