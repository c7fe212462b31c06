package config

import (
	"Market/logger"
	"Market/models"
	"context"
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"os"
	"time"
)

// 環境變數前綴，例如 MARKET_DATABASE_HOST
const envPrefix = "MARKET"

const defaultConfigPath = "config/config.yaml"

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type JWTConfig struct {
	PrivateKeyPath string        `yaml:"privateKeyPath" split_words:"true"`
	PublicKeyPath  string        `yaml:"publicKeyPath" split_words:"true"`
	TokenTTL       time.Duration `yaml:"tokenTTL" envconfig:"token_ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      logger.Config  `yaml:"log"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":3000",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver: "mysql",
			Host:   "127.0.0.1",
			Port:   "3306",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "jwt/private_key.pem",
			PublicKeyPath:  "jwt/public_key.pem",
			TokenTTL:       24 * time.Hour,
		},
		Log: logger.Config{
			Level:      "debug",
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
		},
		Kafka: KafkaConfig{
			Topic: "market-events",
		},
	}
}

// 設定檔路徑，可由 MARKET_CONFIG 指定
func Path() string {
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// 讀取設定檔，再以環境變數覆蓋
func LoadConfig(filename string) (Config, error) {
	config := defaultConfig()

	//.env 不存在時直接略過
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("decode %s: %w", filename, err)
		}
	case errors.Is(err, os.ErrNotExist):
		//沒有設定檔時只使用預設值與環境變數
	default:
		return config, err
	}

	if err := envconfig.Process(envPrefix, &config); err != nil {
		return config, fmt.Errorf("process env: %w", err)
	}

	return config, nil
}

func (c DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case "", "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.Database,
		), nil
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.Host,
			c.Username,
			c.Password,
			c.Database,
			c.Port,
		), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
}

func (c DatabaseConfig) dialector() (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	if c.Driver == "postgres" {
		return postgres.Open(dsn), nil
	}
	return mysql.Open(dsn), nil
}

func SetupDatabaseConnection(config Config) (*gorm.DB, error) {
	dialector, err := config.Database.dialector()
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Info
	if config.Server.Environment == "production" {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.Writer(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.LoginToken{},
		&models.Product{},
		&models.Favorite{},
		&models.Stream{},
		&models.Message{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func SetupRedisConnection(ctx context.Context, config RedisConfig) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.Database,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	return redisClient, nil
}
