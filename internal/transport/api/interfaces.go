package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type CheckoutServicer interface {
	CreateSession(ctx context.Context, userID int64, items []domain.CartItem) (*service.CheckoutSession, error)
}

type OrderServicer interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
}

type EventProcessor interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}
