package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

type CreateOrder struct {
	UserID            int64
	ProviderSessionID string
	Total             decimal.Decimal
	Status            domain.OrderStatusType
}

type CreateOrderItem struct {
	ProductID          int64
	Title              string
	Thumbnail          string
	Quantity           int32
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
}
