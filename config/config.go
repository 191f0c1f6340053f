package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Announce AnnounceConfig
}

type ServerConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// QueueConfig 事件隊列設定：Driver 為 redis(跨進程) 或 memory(單機)
type QueueConfig struct {
	Driver     string
	BufferSize int
}

// AnnounceConfig 叫號廣播設定：同一組 (ticket, counter) 最多 MaxCalls 次，間隔 Spacing
type AnnounceConfig struct {
	MaxCalls  int
	Spacing   time.Duration
	Heartbeat time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Queue:    GetQueueConfig(),
		Announce: GetAnnounceConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Queue:    QueueConfig{Driver: "memory", BufferSize: 64},
		Announce: AnnounceConfig{
			MaxCalls:  3,
			Spacing:   10 * time.Second,
			Heartbeat: 15 * time.Second,
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr: getEnv("SERVER_ADDR", ":8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetQueueConfig() QueueConfig {
	size, err := strconv.Atoi(getEnv("EVENT_QUEUE_BUFFER", "256"))
	if err != nil {
		panic(err)
	}

	return QueueConfig{
		Driver:     getEnv("EVENT_QUEUE_DRIVER", "redis"),
		BufferSize: size,
	}
}

func GetAnnounceConfig() AnnounceConfig {
	maxCalls, err := strconv.Atoi(getEnv("ANNOUNCE_MAX_CALLS", "3"))
	if err != nil {
		panic(err)
	}

	spacingSec, err := strconv.Atoi(getEnv("ANNOUNCE_SPACING_SECONDS", "10"))
	if err != nil {
		panic(err)
	}

	return AnnounceConfig{
		MaxCalls: maxCalls,
		Spacing:  time.Duration(spacingSec) * time.Second,
		// 訂閱連線的心跳間隔為固定常數，不開放每次呼叫調整
		Heartbeat: 15 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
