package config

import (
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/livraria/pkg/circuit_breaker"
	"github.com/Astemirdum/livraria/pkg/logger"
	"github.com/kelseyhightower/envconfig"
)

type API struct {
	BaseURL string        `yaml:"baseURL" envconfig:"LIVRARIA_API_URL" default:"http://localhost:5000"`
	Timeout time.Duration `yaml:"timeout" envconfig:"LIVRARIA_API_TIMEOUT" default:"10s"`
}

type List struct {
	PageSize int           `yaml:"pageSize" envconfig:"LIVRARIA_PAGE_SIZE" default:"10"`
	Debounce time.Duration `yaml:"debounce" envconfig:"LIVRARIA_FILTER_DEBOUNCE" default:"300ms"`
}

type Feedback struct {
	TTL time.Duration `yaml:"ttl" envconfig:"LIVRARIA_FEEDBACK_TTL" default:"5s"`
}

type View struct {
	DateLayout string `yaml:"dateLayout" envconfig:"LIVRARIA_DATE_LAYOUT" default:"02/01/2006"`
}

type Config struct {
	API      API                    `yaml:"api"`
	List     List                   `yaml:"list"`
	Feedback Feedback               `yaml:"feedback"`
	View     View                   `yaml:"view"`
	Breaker  circuit_breaker.Config `yaml:"breaker"`
	Log      logger.Log             `yaml:"log"`
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
