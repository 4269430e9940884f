package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Listen string `yaml:"listen"`
	Auth   Auth   `yaml:"auth"`
	Server Server `yaml:"server"`
	Search Search `yaml:"search"`
	IAM    IAM    `yaml:"iam"`
}

type Auth struct {
	// Scheme is the Authorization header scheme, e.g. "Token".
	Scheme string `yaml:"scheme"`
}

type Server struct {
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Search struct {
	// IndexPrefix namespaces the inverted-index keys in redis.
	IndexPrefix string `yaml:"indexPrefix"`
}

type IAM struct {
	// Endpoint is the base URL of the IAM service, used by the
	// inventory service for remote token validation.
	Endpoint string `yaml:"endpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Listen == "" {
		config.Listen = ":8000"
	}
	if config.Auth.Scheme == "" {
		config.Auth.Scheme = "Token"
	}
	if config.Search.IndexPrefix == "" {
		config.Search.IndexPrefix = "inventory"
	}

	return config, nil
}
