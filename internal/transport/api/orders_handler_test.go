package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/logger"
	"github.com/jameszsun/dummy-ecommerce/internal/service/tokens"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/mocks"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/testutils"
)

type OrdersHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	jwtSecret        []byte
}

func TestOrdersHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrdersHandlerTestSuite))
}

func (s *OrdersHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *OrdersHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var noOrdersUserID int64 = 2

	userJWTToken, uJWTErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(uJWTErr)
	noOrdersJWTToken, nJWTErr := tokens.GenerateUserJWT(noOrdersUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(nJWTErr)

	orders := []domain.Order{
		{
			ID:                2,
			CreatedAt:         time.Now(),
			UserID:            userID,
			ProviderSessionID: "cs_test_2",
			Total:             decimal.RequireFromString("230"),
			Status:            domain.OrderStatusCompleted,
			Items: []domain.OrderItem{
				{
					ID:                 1,
					OrderID:            2,
					ProductID:          7,
					Title:              "Essence Mascara",
					Thumbnail:          "https://cdn.example.com/7.png",
					Quantity:           2,
					Price:              decimal.RequireFromString("100"),
					DiscountPercentage: decimal.RequireFromString("10"),
				},
			},
		},
		{
			ID:                1,
			CreatedAt:         time.Now().Add(-time.Hour),
			UserID:            userID,
			ProviderSessionID: "cs_test_1",
			Total:             decimal.RequireFromString("50"),
			Status:            domain.OrderStatusCompleted,
		},
	}

	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), userID).Return(orders, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), noOrdersUserID).Return([]domain.Order{}, nil)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
		wantOrders int
	}{
		{
			name:       "ok",
			jwtToken:   userJWTToken,
			wantStatus: http.StatusOK,
			wantOrders: 2,
		}, {
			// Пустая история - валидный ответ с пустым списком, не 204 и не ошибка.
			name:       "no orders",
			jwtToken:   noOrdersJWTToken,
			wantStatus: http.StatusOK,
			wantOrders: 0,
		}, {
			name:       "not authorized",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", t.jwtToken)))
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + OrdersRoute,
			}, reqOpts...)
			s.Require().NoError(err)
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus != http.StatusOK {
				return
			}

			var parsed struct {
				Orders []OrderResponse `json:"orders"`
			}
			s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
			s.Require().Len(parsed.Orders, t.wantOrders)

			if t.wantOrders > 0 {
				// Порядок сервиса сохраняется: новые заказы первыми.
				s.Equal(int64(2), parsed.Orders[0].ID)
				s.Equal(int64(1), parsed.Orders[1].ID)

				s.InDelta(230.0, parsed.Orders[0].Total, 0.001)
				s.Equal(domain.OrderStatusCompleted, parsed.Orders[0].Status)

				s.Require().Len(parsed.Orders[0].Items, 1)
				item := parsed.Orders[0].Items[0]
				s.Equal(int64(7), item.ProductID)
				s.Equal("Essence Mascara", item.Title)
				s.Equal(int32(2), item.Quantity)
				s.InDelta(100.0, item.Price, 0.001)
				s.InDelta(10.0, item.DiscountPercentage, 0.001)
			}
		})
	}
}

func (s *OrdersHandlerTestSuite) TestIndexServiceFailure() {
	var userID int64 = 1

	userJWTToken, jwtErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	s.mockOrderService.EXPECT().
		GetByUserID(gomock.Any(), userID).
		Return(nil, domain.ErrUnknown)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + OrdersRoute,
	}, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", userJWTToken)))
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Equal(http.StatusInternalServerError, res.StatusCode)
}
