package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
	StoreDriverMySQL  = "mysql"
	StoreDriverRedis  = "redis"

	EnvDev = "dev"
)

type Config struct {
	AppPort           string
	AppEnv            string
	StoreDriver       string
	StoreKey          string
	StoreDir          string
	SQLitePath        string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SaveTimeout       time.Duration
	ShutdownTimeout   time.Duration
	TrustedProxies    []string
	TranslationFolder string
}

// AppEnv reads APP_ENV, .env included, without parsing the rest of the
// configuration. The logger is built from it before LoadConfig runs.
func AppEnv() string {
	_ = godotenv.Load(".env")
	return getEnv("APP_ENV", "prod")
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "prod"),
		StoreDriver:       parseStoreDriver(getEnv("STORE_DRIVER", StoreDriverSQLite)),
		StoreKey:          getEnv("STORE_KEY", "@tasks"),
		StoreDir:          getEnv("STORE_DIR", "data"),
		SQLitePath:        getEnv("SQLITE_PATH", "data/tasks.db"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "taskkeeper"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "taskkeeper"),
		DbName:            getEnv("MYSQL_DATABASE", "taskkeeper"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		SaveTimeout:       getEnvDuration("SAVE_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		TrustedProxies:    parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
	}
}

func (c *Config) IsDev() bool {
	return c.AppEnv == EnvDev
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid integer env value, using default", zap.String("key", key), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		zap.L().Warn("invalid duration env value, using default", zap.String("key", key), zap.Duration("default", fallback))
		return fallback
	}
	return parsed
}

func parseStoreDriver(value string) string {
	driver := strings.ToLower(strings.TrimSpace(value))
	switch driver {
	case StoreDriverMemory, StoreDriverFile, StoreDriverSQLite, StoreDriverMySQL, StoreDriverRedis:
		return driver
	default:
		zap.L().Warn("unknown store driver, falling back to sqlite", zap.String("driver", value))
		return StoreDriverSQLite
	}
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
