package service

import (
	"github.com/shopspring/decimal"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// discountedUnitPrice возвращает цену позиции с учетом скидки: price * (1 - discount/100).
// Значение не округляется: округление до цента допустимо только на границе с провайдером,
// в заказ попадает исходный снапшот цены и скидки.
func discountedUnitPrice(item domain.CartItem) decimal.Decimal {
	return item.Price.Mul(one.Sub(item.DiscountPercentage.Div(hundred)))
}

// unitAmountMinor конвертирует цену со скидкой в минорные единицы провайдера
// с округлением до ближайшего цента.
func unitAmountMinor(item domain.CartItem) int64 {
	return discountedUnitPrice(item).Mul(hundred).Round(0).IntPart()
}

// cartTotal считает сумму заказа по снапшоту корзины, округляя итог до двух знаков.
func cartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		lineTotal := discountedUnitPrice(item).Mul(decimal.NewFromInt32(item.Quantity))
		total = total.Add(lineTotal)
	}
	return total.Round(2)
}

func validateCartItems(items []domain.CartItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.ErrInvalidCartItem
		}
		if item.Price.IsNegative() {
			return domain.ErrInvalidCartItem
		}
		if item.DiscountPercentage.IsNegative() || item.DiscountPercentage.GreaterThan(hundred) {
			return domain.ErrInvalidCartItem
		}
	}
	return nil
}
