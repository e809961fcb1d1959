package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sakashimaa/go-pet-project/storefront/pkg/utils"
)

const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTP       `yaml:"http"`
	Logger     Logger     `yaml:"logger"`
	Auth       Auth       `yaml:"auth"`
	Session    Session    `yaml:"session"`
	Cart       Cart       `yaml:"cart"`
	Redis      Redis      `yaml:"redis"`
	Kafka      Kafka      `yaml:"kafka"`
	Submission Submission `yaml:"submission"`
	Limiter    Limiter    `yaml:"limiter"`
	Tracing    Tracing    `yaml:"tracing"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type Logger struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Auth struct {
	Secret string `yaml:"secret" env:"ACCESS_SECRET"`
}

type Session struct {
	Cookie        string        `yaml:"cookie" env-default:"sid"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type Cart struct {
	Store string `yaml:"store" env:"CART_STORE" env-default:"memory"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"product_events"`
}

type Submission struct {
	Delay   time.Duration `yaml:"delay" env:"SUBMISSION_DELAY" env-default:"1500ms"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"60"`
	Expiration time.Duration `yaml:"expiration" env-default:"5s"`
}

type Tracing struct {
	Enabled     bool    `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	Endpoint    string  `yaml:"endpoint" env:"JAEGER_ENDPOINT" env-default:"localhost:4318"`
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACING_SAMPLE_RATIO" env-default:"1"`
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	switch cfg.Cart.Store {
	case CartStoreMemory, CartStoreRedis:
	default:
		return nil, fmt.Errorf("unknown cart store %q", cfg.Cart.Store)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	return cfg
}
