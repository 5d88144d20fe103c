package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/jameszsun/dummy-ecommerce/internal/app"
	"github.com/jameszsun/dummy-ecommerce/internal/config"
	"github.com/jameszsun/dummy-ecommerce/internal/logger"
)

func main() {
	// .env опционален, в проде конфигурация приходит из окружения.
	_ = godotenv.Load()

	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		panic(err)
	}
}
