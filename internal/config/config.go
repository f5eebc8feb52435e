package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort          string
	TableName         string
	StoreBackend      string
	AWSRegion         string
	DynamoDBEndpoint  string
	DatabaseURL       string
	DBPoolSize        int
	RedisURL          string
	RedisPoolSize     int
	CacheTTL          time.Duration
	KafkaBrokers      []string
	KafkaTopic        string
	KafkaPartitions   int
	KafkaGroupID      string
	JWTSecret         string
	CORSAllowedOrigin string
	LogLevel          string
	Operation         string
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = Load()
	})
	return cfg
}

// Load reads the configuration from the current environment.
func Load() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		TableName:         getEnv("TODOS_TABLE", "todos"),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		DynamoDBEndpoint:  os.Getenv("DYNAMODB_ENDPOINT"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBPoolSize:        getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisPoolSize:     getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:          time.Duration(getIntEnv("CACHE_TTL_SEC", 300)) * time.Second,
		KafkaBrokers:      getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:        getEnv("KAFKA_TODO_TOPIC", "todo-events"),
		KafkaPartitions:   getIntEnv("KAFKA_PARTITIONS", 8),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "todo-cache-invalidator"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Operation:         strings.ToLower(os.Getenv("TODO_OPERATION")),
	}
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// EventsEnabled reports whether Kafka brokers were configured.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

// LoadEnvFile reads a .env file and sets env vars (only if not already set).
// A missing file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		val = unquote(strings.TrimSpace(val))
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
