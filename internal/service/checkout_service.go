package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

const sessionCurrency = "usd"

// Ключи метаданных платежной сессии. Метаданные - единственный канал, по которому
// состав заказа доезжает до вебхука: провайдер не возвращает исходную корзину,
// он лишь эхом отдает то, что мы сюда положили.
const (
	MetadataUserIDKey    = "userId"
	MetadataCartItemsKey = "cartItems"
)

type CheckoutService struct {
	client      PaymentClient
	frontendURL string
}

func NewCheckoutService(client PaymentClient, frontendURL string) *CheckoutService {
	return &CheckoutService{
		client:      client,
		frontendURL: frontendURL,
	}
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

// CreateSession валидирует корзину, считает цены со скидкой и запрашивает у провайдера
// hosted-сессию оплаты. Локально ничего не пишет: до прихода уведомления об оплате
// все состояние живет у провайдера.
//
// Ошибки: domain.ErrEmptyCart / domain.ErrInvalidCartItem до любого внешнего вызова,
// domain.ErrProviderUnavailable если провайдер не ответил.
func (s *CheckoutService) CreateSession(
	ctx context.Context,
	userID int64,
	items []domain.CartItem,
) (*CheckoutSession, error) {
	if valErr := validateCartItems(items); valErr != nil {
		return nil, fmt.Errorf("creating checkout session: %w", valErr)
	}

	lineItems := make([]ProviderLineItem, len(items))
	for i, item := range items {
		lineItems[i] = ProviderLineItem{
			Name:       item.Title,
			ImageURL:   item.Thumbnail,
			Currency:   sessionCurrency,
			UnitAmount: unitAmountMinor(item),
			Quantity:   int64(item.Quantity),
		}
	}

	cartJSON, marshalErr := json.Marshal(items)
	if marshalErr != nil {
		return nil, fmt.Errorf("creating checkout session: %s", marshalErr.Error())
	}

	session, sessionErr := s.client.CreateCheckoutSession(ctx, ProviderSessionArgs{
		SuccessURL: s.frontendURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/checkout/cancel",
		LineItems:  lineItems,
		Metadata: map[string]string{
			MetadataUserIDKey:    strconv.FormatInt(userID, 10),
			MetadataCartItemsKey: string(cartJSON),
		},
	})
	if sessionErr != nil {
		return nil, fmt.Errorf("creating checkout session: %w", sessionErr)
	}

	return &CheckoutSession{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
