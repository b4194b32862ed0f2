// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: .env files
// are read into the process environment (existing variables win) and the
// environment is then parsed into any struct annotated with env tags.
//
//	type Config struct {
//		Port int    `env:"PORT" envDefault:"3000"`
//		Env  string `env:"APP_ENV" envDefault:"development"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// MustLoad panics instead of returning an error and is meant for main.
package config
