package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderItemResponse struct {
	ID                 int64   `json:"id"`
	ProductID          int64   `json:"productId"`
	Title              string  `json:"productTitle"`
	Thumbnail          string  `json:"productThumbnail"`
	Quantity           int32   `json:"quantity"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

type OrderResponse struct {
	ID        int64                  `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Total     float64                `json:"total"`
	Status    domain.OrderStatusType `json:"status"`
	Items     []OrderItemResponse    `json:"items"`
}

// Index GET RouteGroup + OrdersRoute. Возвращает заказы текущего юзера, новые первыми.
// Для юзера без заказов отдаем пустой список, не ошибку.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		items := make([]OrderItemResponse, len(order.Items))
		for j, item := range order.Items {
			items[j] = OrderItemResponse{
				ID:                 item.ID,
				ProductID:          item.ProductID,
				Title:              item.Title,
				Thumbnail:          item.Thumbnail,
				Quantity:           item.Quantity,
				Price:              item.Price.InexactFloat64(),
				DiscountPercentage: item.DiscountPercentage.InexactFloat64(),
			}
		}
		response[i] = OrderResponse{
			ID:        order.ID,
			CreatedAt: order.CreatedAt,
			Total:     order.Total.InexactFloat64(),
			Status:    order.Status,
			Items:     items,
		}
	}

	c.JSON(http.StatusOK, gin.H{"orders": response})
}
