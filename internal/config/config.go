package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config is loaded from the environment, a local .env file is picked up
// automatically.
type Config struct {
	Env      string
	DbType   string
	DbDSN    string
	HttpPort string

	RedisAddr string

	// SearchIndexPath is the bleve index directory.
	SearchIndexPath string

	// TrashRetentionDays is how long soft-deleted studies stay restorable
	// before the purge job erases them.
	TrashRetentionDays int
}

// LoadConfig reads the config from the environment.
func LoadConfig() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		DbType:             getEnv("DB_TYPE", "sqlite"),
		DbDSN:              getEnv("DB_DSN", ".tmp/db/study.db"),
		HttpPort:           getEnv("HTTP_PORT", "4020"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		SearchIndexPath:    getEnv("SEARCH_INDEX_PATH", ".tmp/index/study.bleve"),
		TrashRetentionDays: getEnvInt("TRASH_RETENTION_DAYS", 30),
	}
}

// GetDb opens the database the config points at. Anything but postgres
// falls back to a local sqlite file.
func GetDb(cnf *Config) *gorm.DB {
	var db *gorm.DB
	var err error

	switch cnf.DbType {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cnf.DbDSN), &gorm.Config{})
	default:
		if err = os.MkdirAll(".tmp/db", os.ModePerm); err != nil {
			logrus.Fatalf("error creating sqlite directory: %v", err)
		}
		db, err = gorm.Open(sqlite.Open(cnf.DbDSN), &gorm.Config{})
	}

	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	return db
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Errorf("error parsing %s: %v", key, err)
		return fallback
	}
	return n
}
