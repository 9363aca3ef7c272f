package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
)

type Config struct {
	CfgDB           ConfigDB      `yaml:"db"`
	CfgRedis        ConfigRedis   `yaml:"redis"`
	CfgCart         ConfigCart    `yaml:"cart"`
	CfgKafka        ConfigKafka   `yaml:"kafka"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	Secret          string        `yaml:"secret"`
	ServerPort      string        `yaml:"srv_port"`
	SessionDuration time.Duration `yaml:"session_duration"`
}

type ConfigDB struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Port     uint   `yaml:"port"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
}

type ConfigRedis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ConfigCart где лежат снимки корзин; ttl действует только для redis
type ConfigCart struct {
	Store string        `yaml:"store"`
	TTL   time.Duration `yaml:"ttl"`
}

type ConfigKafka struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func NewConfig(configPath string) (*Config, error) {
	cfg, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var c Config
	err = yaml.Unmarshal(cfg, &c)
	if err != nil {
		return nil, err
	}

	if c.CfgCart.Store == "" {
		c.CfgCart.Store = CartStoreRedis
	}

	return &c, nil
}
