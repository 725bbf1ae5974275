package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	GameTTL    time.Duration `yaml:"game-ttl" env:"GAME_TTL" env-default:"24h"`
	Redis      Redis         `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate - checks values that cleanenv cannot check by itself.
func (that *Config) Validate() error {
	if _, err := that.SlogLevel(); err != nil {
		return err
	}

	ports := map[string]string{
		"http-port":   that.HTTPPort,
		"socket-port": that.SocketPort,
		"redis.port":  that.Redis.Port,
	}
	for name, port := range ports {
		if err := validatePort(port); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}
	}

	if that.Redis.Host == "" {
		return fmt.Errorf("%w: redis.host is empty", ErrInvalidConfig)
	}

	if that.GameTTL <= 0 {
		return fmt.Errorf("%w: game-ttl must be positive, got %s", ErrInvalidConfig, that.GameTTL)
	}

	return nil
}

// SlogLevel - parses log-level ("debug", "info", "warn", "error").
func (that *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(that.LogLevel)); err != nil {
		return level, fmt.Errorf("%w: log-level: %w", ErrInvalidConfig, err)
	}

	return level, nil
}

func validatePort(port string) error {
	number, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q is not a number", port)
	}

	if number < 1 || number > 65535 {
		return fmt.Errorf("port %d is out of range", number)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
