package payment

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
)

type OrderServicer interface {
	CreateFromPaymentSession(
		ctx context.Context,
		args service.CreateFromPaymentSessionArgs,
	) (*domain.Order, error)
}
