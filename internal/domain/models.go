package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	Email             string
	Name              string
	EncryptedPassword string
}

type Order struct {
	ID                int64
	CreatedAt         time.Time
	UserID            int64
	ProviderSessionID string
	Total             decimal.Decimal
	Status            OrderStatusType
	Items             []OrderItem
}

// OrderItem хранит снапшот товара на момент покупки. Последующие изменения каталога
// (цена, скидка, название) на созданные заказы не влияют.
type OrderItem struct {
	ID                 int64
	OrderID            int64
	ProductID          int64
	Title              string
	Thumbnail          string
	Quantity           int32
	Price              decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// CartItem это позиция корзины, как её прислал клиент при создании платежной сессии.
// В базе не хранится: живет в метаданных платежной сессии до прихода уведомления об оплате.
type CartItem struct {
	ProductID          int64           `json:"id"`
	Title              string          `json:"title"`
	Thumbnail          string          `json:"thumbnail"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Quantity           int32           `json:"quantity"`
}
