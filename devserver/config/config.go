package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/livraria/pkg/kafka"
	"github.com/Astemirdum/livraria/pkg/logger"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIVRARIA_HTTP_HOST" default:"localhost"`
	Port         string        `yaml:"port" envconfig:"LIVRARIA_HTTP_PORT" default:"5000"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"10s"`
}

type Database struct {
	// DSN is a go-sqlite3 data source name.
	DSN  string `yaml:"dsn" envconfig:"LIVRARIA_DB_DSN" default:"file:livros.db?_foreign_keys=on"`
	Seed bool   `yaml:"seed" envconfig:"LIVRARIA_DB_SEED" default:"true"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database Database     `yaml:"database"`
	Kafka    kafka.Config `yaml:"kafka"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment, then applies ops on top.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = config
	})

	return cfg
}
