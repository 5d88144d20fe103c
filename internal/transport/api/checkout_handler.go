package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

// SignatureHeader - заголовок, в котором провайдер передает подпись вебхука.
const SignatureHeader = "Stripe-Signature"

type CheckoutHandler struct {
	checkoutSvs CheckoutServicer
	processor   EventProcessor
}

func NewCheckoutHandler(checkoutSvs CheckoutServicer, processor EventProcessor) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutSvs: checkoutSvs,
		processor:   processor,
	}
}

type CartItemParams struct {
	ID                 int64           `binding:"required"          json:"id"`
	Title              string          `binding:"required,max=255"  json:"title"`
	Thumbnail          string          `json:"thumbnail"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Quantity           int32           `binding:"required"          json:"quantity"`
}

type CreateSessionParams struct {
	CartItems []CartItemParams `binding:"dive"  json:"cartItems"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateSession POST RouteGroup + CheckoutSessionRoute. Создает hosted-сессию оплаты
// у платежного провайдера по присланной корзине.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CreateSessionParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	items := make([]domain.CartItem, len(params.CartItems))
	for i, item := range params.CartItems {
		items[i] = domain.CartItem{
			ProductID:          item.ID,
			Title:              item.Title,
			Thumbnail:          item.Thumbnail,
			Price:              item.Price,
			DiscountPercentage: item.DiscountPercentage,
			Quantity:           item.Quantity,
		}
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	session, createErr := h.checkoutSvs.CreateSession(ctx, currentUserID, items)
	if createErr != nil {
		switch {
		case errors.Is(createErr, domain.ErrEmptyCart):
			_ = c.AbortWithError(http.StatusBadRequest, errors.New("cart is empty")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(createErr, domain.ErrInvalidCartItem):
			_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid cart item")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(createErr, domain.ErrProviderUnavailable):
			_ = c.AbortWithError(http.StatusBadGateway, createErr).
				SetType(gin.ErrorTypePrivate)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, createErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, CreateSessionResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	})
}

// Webhook POST RouteGroup + CheckoutWebhookRoute. Принимает уведомления платежного провайдера.
// Тело читается сырым: подпись считается от байтов запроса, любая переупаковка её сломает.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	payload, readErr := c.GetRawData()
	if readErr != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, readErr).SetType(gin.ErrorTypePrivate)
		return
	}

	if err := h.processor.HandleEvent(c, payload, c.GetHeader(SignatureHeader)); err != nil {
		// Единственный отказ - невалидная подпись; статус 400 говорит провайдеру
		// не ретраить эту доставку.
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid signature")).
			SetType(gin.ErrorTypePublic)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
