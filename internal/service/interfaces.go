package service

import (
	"context"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	CreateOrderItems(ctx context.Context, orderID int64, items []repoargs.CreateOrderItem) error
	FindByProviderSessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
}

// ProviderLineItem - одна позиция hosted-сессии в минорных единицах валюты (центах).
// Провайдер не принимает дробные суммы, поэтому округление до цента происходит на этой границе.
type ProviderLineItem struct {
	Name       string
	ImageURL   string
	Currency   string
	UnitAmount int64
	Quantity   int64
}

type ProviderSessionArgs struct {
	SuccessURL string
	CancelURL  string
	LineItems  []ProviderLineItem
	Metadata   map[string]string
}

type ProviderSession struct {
	ID  string
	URL string
}

// PaymentClient - клиент платежного провайдера. Реализация живет в transport/payment/client,
// в тестах подменяется моком.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, args ProviderSessionArgs) (*ProviderSession, error)
}
