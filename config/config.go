package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	Host string
	Port string
}

// Load reads .env when present (dev convenience), then the properties file
// selected by PONG_ENV (default "dev").
func Load() (Config, error) {
	_ = godotenv.Load()

	env := os.Getenv("PONG_ENV")
	if env == "" {
		env = "dev"
	}

	v := viper.New()
	v.SetConfigName(fmt.Sprintf("%s/%s", "properties", env))
	v.SetConfigType("properties")
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config for env %q: %w", env, err)
	}

	return Config{
		Host: cast.ToString(v.Get("HOST_IP")),
		Port: cast.ToString(v.Get("HOST_PORT")),
	}, nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
