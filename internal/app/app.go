package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jameszsun/dummy-ecommerce/internal/config"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/pgrepo"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/repoargs"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/payment"
	paymentclient "github.com/jameszsun/dummy-ecommerce/internal/transport/payment/client"
	"github.com/jameszsun/dummy-ecommerce/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	providerClient := paymentclient.New(a.Config.StripeAPIBaseURL, a.Config.StripeSecretKey)

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:     []byte(a.Config.JWTSecret),
		PaymentClient: providerClient,
		FrontendURL:   a.Config.FrontendURL,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	processor := payment.New(services.OrderService, []byte(a.Config.StripeWebhookSecret), a.Logger)

	router := api.New(api.RouterArgs{
		Logger:          a.Logger,
		UserService:     services.UserService,
		CheckoutService: services.CheckoutService,
		OrderService:    services.OrderService,
		EventProcessor:  processor,
		JWTSecretKey:    []byte(a.Config.JWTSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// order repo
	orderRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewOrderRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.OrderRepoName), orderRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
