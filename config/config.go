package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName       string        `json:"appname"`
	AppEnv        string        `json:"appenv"`
	AppPort       uint16        `json:"appport"`
	GinMode       string        `json:"ginmode"`
	DBHost        string        `json:"dbhost"`
	DBPort        uint16        `json:"dbport"`
	DBName        string        `json:"dbname"`
	DBUser        string        `json:"dbuser"`
	DBPass        string        `json:"dbpass"`
	RedisAddr     string        `json:"redis_addr"`
	RedisPass     string        `json:"redis_pass"`
	RedisDB       int           `json:"redis_db"`
	MaxUploadSize int64         `json:"max_upload_size"`
	TokenTTL      time.Duration `json:"token_ttl"`
	PresignTTL    time.Duration `json:"presign_ttl"`
}

const (
	defaultMaxUploadSize = 50 << 20 // 50 MiB
	defaultTokenTTL      = time.Hour
	defaultPresignTTL    = time.Hour
)

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env file is not fatal: containers and CI pass everything
		// through the environment directly.
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:       os.Getenv("APPNAME"),
			AppEnv:        os.Getenv("APPENV"),
			AppPort:       uint16(appPort),
			GinMode:       os.Getenv("GINMODE"),
			DBHost:        os.Getenv("DBHOST"),
			DBPort:        uint16(dbPort),
			DBName:        os.Getenv("DBNAME"),
			DBUser:        os.Getenv("DBUSER"),
			DBPass:        os.Getenv("DBPASS"),
			RedisAddr:     redisAddr,
			RedisPass:     os.Getenv("REDIS_PASS"),
			RedisDB:       redisDB,
			MaxUploadSize: parseSizeEnv("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
			TokenTTL:      parseDurationEnv("TOKEN_TTL", defaultTokenTTL),
			PresignTTL:    parseDurationEnv("PRESIGN_TTL", defaultPresignTTL),
		}
	})
	return config
}

func parseSizeEnv(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	// Open a database connection.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
