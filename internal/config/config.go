package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	TCP      TCP    `yaml:"tcp"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
}

type TCP struct {
	Host string `yaml:"host" env:"TCP_HOST" env-default:""`
	Port string `yaml:"port" env:"TCP_PORT" env-default:"8888"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	QuorumWait  time.Duration `yaml:"quorum-wait" env:"GAME_QUORUM_WAIT" env-default:"60s"`
	TurnTimeout time.Duration `yaml:"turn-timeout" env:"GAME_TURN_TIMEOUT" env-default:"300s"`
	MinPlayers  int           `yaml:"min-players" env:"GAME_MIN_PLAYERS" env-default:"2"`

	// Secret pins the secret number instead of generating one. Debug only.
	Secret string `yaml:"secret" env:"GAME_SECRET" env-default:""`
}

// MustLoad - loads the configuration from the YAML file, falling back to
// environment variables and defaults when the file is absent.
func MustLoad(path string) *Config {
	config := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(config); err != nil {
			panic(fmt.Errorf("unable to read environment config: %w", err))
		}
		return config
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *TCP) GetTCPAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
