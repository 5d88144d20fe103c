package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	RunAddress          string `env:"RUN_ADDRESS"`
	DatabaseDSN         string `env:"DATABASE_URI"`
	MigrationsDir       string `env:"MIGRATIONS_DIR"`
	FrontendURL         string `env:"FRONTEND_URL"`
	JWTSecret           string `env:"JWT_SECRET"`
	StripeAPIBaseURL    string `env:"STRIPE_API_BASE_URL"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := validateConfig(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func validateConfig(conf *Config) error {
	if conf.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if conf.JWTSecret == "" {
		return errors.New("JWT secret is not set")
	}
	if conf.StripeSecretKey == "" {
		return errors.New("stripe secret key is not set")
	}
	if conf.StripeWebhookSecret == "" {
		return errors.New("stripe webhook secret is not set")
	}
	return nil
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.FrontendURL, "f", "http://localhost:3000", "Frontend base URL for redirects")
	flag.StringVar(&flagConfig.StripeAPIBaseURL, "s", "https://api.stripe.com", "Payment provider API base URL")

	flag.Parse()
}

// mergeConfig значения из окружения имеют приоритет над флагами.
// Секреты задаются только через окружение.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:          defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:         defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:       defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		FrontendURL:         defaultIfBlank(envConfig.FrontendURL, flagsConfig.FrontendURL),
		StripeAPIBaseURL:    defaultIfBlank(envConfig.StripeAPIBaseURL, flagsConfig.StripeAPIBaseURL),
		JWTSecret:           envConfig.JWTSecret,
		StripeSecretKey:     envConfig.StripeSecretKey,
		StripeWebhookSecret: envConfig.StripeWebhookSecret,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
