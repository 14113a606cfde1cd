package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Providers ProvidersConfig
	Engine    EngineConfig
	NATS      NATSConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string // через запятую, для CORS
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled         bool
	StationCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	Publisher         string // redis | nats
}

// ProviderConfig - адрес и ключ одного API провайдера
type ProviderConfig struct {
	BaseURL string
	Key     string
}

type ProvidersConfig struct {
	SeoulBus       ProviderConfig
	GyeonggiBus    ProviderConfig
	SeoulSubway    ProviderConfig
	TMap           ProviderConfig
	RequestTimeout time.Duration
	MaxAttempts    int
}

type EngineConfig struct {
	MaxConcurrentLegs int
	TimeZone          string
}

type NATSConfig struct {
	URL     string
	Subject string
}

type MetricsConfig struct {
	Enabled bool
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom читает конфигурацию из указанного env-файла; отсутствие файла не ошибка
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled:         v.GetBool("CACHE_ENABLED"),
			StationCacheTTL: time.Duration(v.GetInt("STATION_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			Publisher:         v.GetString("WORKER_PUBLISHER"),
		},
		Providers: ProvidersConfig{
			SeoulBus: ProviderConfig{
				BaseURL: v.GetString("SEOUL_BUS_BASE_URL"),
				Key:     v.GetString("SEOUL_BUS_KEY"),
			},
			GyeonggiBus: ProviderConfig{
				BaseURL: v.GetString("GYEONGGI_BUS_BASE_URL"),
				Key:     v.GetString("GYEONGGI_BUS_KEY"),
			},
			SeoulSubway: ProviderConfig{
				BaseURL: v.GetString("SEOUL_SUBWAY_BASE_URL"),
				Key:     v.GetString("SEOUL_SUBWAY_KEY"),
			},
			TMap: ProviderConfig{
				BaseURL: v.GetString("TMAP_BASE_URL"),
				Key:     v.GetString("TMAP_APP_KEY"),
			},
			RequestTimeout: time.Duration(v.GetInt("PROVIDER_TIMEOUT")) * time.Second,
			MaxAttempts:    v.GetInt("PROVIDER_MAX_ATTEMPTS"),
		},
		Engine: EngineConfig{
			MaxConcurrentLegs: v.GetInt("ENGINE_MAX_CONCURRENT_LEGS"),
			TimeZone:          v.GetString("ENGINE_TIMEZONE"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if cfg.Engine.MaxConcurrentLegs < 1 {
		cfg.Engine.MaxConcurrentLegs = 1
	}
	if cfg.Providers.MaxAttempts < 1 {
		cfg.Providers.MaxAttempts = 1
	}
	if cfg.Worker.Publisher != "redis" && cfg.Worker.Publisher != "nats" {
		return nil, fmt.Errorf("unsupported WORKER_PUBLISHER %q", cfg.Worker.Publisher)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("STATION_CACHE_TTL", 86400)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_CONSUMER_GROUP", "lasttime-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("WORKER_PUBLISHER", "redis")
	v.SetDefault("SEOUL_BUS_BASE_URL", "http://ws.bus.go.kr/api/rest")
	v.SetDefault("GYEONGGI_BUS_BASE_URL", "https://apis.data.go.kr/6410000")
	v.SetDefault("SEOUL_SUBWAY_BASE_URL", "http://openapi.seoul.go.kr:8088")
	v.SetDefault("TMAP_BASE_URL", "https://apis.openapi.sk.com/tmap")
	v.SetDefault("PROVIDER_TIMEOUT", 10)
	v.SetDefault("PROVIDER_MAX_ATTEMPTS", 3)
	v.SetDefault("ENGINE_MAX_CONCURRENT_LEGS", 1)
	v.SetDefault("ENGINE_TIMEZONE", "Asia/Seoul")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "lasttime.done")
	v.SetDefault("METRICS_ENABLED", true)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location возвращает часовой пояс движка; по умолчанию Asia/Seoul
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Engine.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_TIMEZONE %q: %w", c.Engine.TimeZone, err)
	}
	return loc, nil
}
