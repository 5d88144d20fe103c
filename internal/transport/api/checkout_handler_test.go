package api

import (
	"bytes"
	"context"
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
	"github.com/jameszsun/dummy-ecommerce/internal/service"
	"github.com/jameszsun/dummy-ecommerce/internal/service/tokens"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/mocks"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/testutils"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockCheckoutService *mocks.MockCheckoutServicer
	mockProcessor       *mocks.MockEventProcessor
	jwtSecret           []byte
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockCheckoutService = mocks.NewMockCheckoutServicer(mockCtrl)
	s.mockProcessor = mocks.NewMockEventProcessor(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:          logger.New(os.Stdout),
		CheckoutService: s.mockCheckoutService,
		EventProcessor:  s.mockProcessor,
		JWTSecretKey:    s.jwtSecret,
	})
}

func (s *CheckoutHandlerTestSuite) TestCreateSession() {
	var currentUserID int64 = 42

	currentUserJWTToken, jwtErr := tokens.GenerateUserJWT(currentUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	validPayload := gin.H{
		"cartItems": []gin.H{
			{
				"id":                 1,
				"title":              "Essence Mascara",
				"thumbnail":          "https://cdn.example.com/1.png",
				"price":              "19.99",
				"discountPercentage": "33",
				"quantity":           2,
			},
		},
	}

	session := service.CheckoutSession{
		SessionID: "cs_test_123",
		URL:       "https://checkout.example.com/pay/cs_test_123",
	}

	// Сервис должен получить userID из токена и корзину из тела как есть.
	s.mockCheckoutService.EXPECT().
		CreateSession(gomock.Any(), currentUserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, items []domain.CartItem) (*service.CheckoutSession, error) {
			s.Require().Len(items, 1)
			s.Equal(int64(1), items[0].ProductID)
			s.Equal("Essence Mascara", items[0].Title)
			s.True(decimal.RequireFromString("19.99").Equal(items[0].Price))
			s.True(decimal.RequireFromString("33").Equal(items[0].DiscountPercentage))
			s.Equal(int32(2), items[0].Quantity)
			return &session, nil
		})

	res := s.postCreateSession(validPayload, currentUserJWTToken)
	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Require().Equal(http.StatusOK, res.StatusCode)

	var parsed CreateSessionResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
	s.Equal(session.SessionID, parsed.SessionID)
	s.Equal(session.URL, parsed.URL)
}

func (s *CheckoutHandlerTestSuite) TestCreateSessionErrors() {
	var currentUserID int64 = 42

	currentUserJWTToken, jwtErr := tokens.GenerateUserJWT(currentUserID, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	itemPayload := gin.H{
		"cartItems": []gin.H{
			{"id": 1, "title": "Essence Mascara", "price": "19.99", "quantity": 1},
		},
	}

	cases := []struct {
		name       string
		payload    gin.H
		jwtToken   string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "empty cart",
			payload:    gin.H{"cartItems": []gin.H{}},
			jwtToken:   currentUserJWTToken,
			serviceErr: domain.ErrEmptyCart,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "invalid cart item",
			payload:    itemPayload,
			jwtToken:   currentUserJWTToken,
			serviceErr: domain.ErrInvalidCartItem,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "provider down",
			payload:    itemPayload,
			jwtToken:   currentUserJWTToken,
			serviceErr: domain.ErrProviderUnavailable,
			wantStatus: http.StatusBadGateway,
		}, {
			name: "bind error",
			payload: gin.H{
				"cartItems": []gin.H{{"id": 1, "quantity": 1}}, // нет title
			},
			jwtToken:   currentUserJWTToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			payload:    itemPayload,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			if t.serviceErr != nil {
				s.mockCheckoutService.EXPECT().
					CreateSession(gomock.Any(), currentUserID, gomock.Any()).
					Return(nil, t.serviceErr)
			}

			res := s.postCreateSession(t.payload, t.jwtToken)
			defer func() {
				s.Require().NoError(res.Body.Close())
			}()

			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *CheckoutHandlerTestSuite) TestWebhook() {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	signature := "t=1700000000,v1=deadbeef"

	s.mockProcessor.EXPECT().
		HandleEvent(gomock.Any(), payload, signature).
		Return(nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + CheckoutWebhookRoute,
		Body:   bytes.NewReader(payload),
	}, testutils.WithHeader(SignatureHeader, signature))
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Require().Equal(http.StatusOK, res.StatusCode)

	var parsed map[string]bool
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&parsed))
	s.True(parsed["received"])
}

func (s *CheckoutHandlerTestSuite) TestWebhookBadSignature() {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	s.mockProcessor.EXPECT().
		HandleEvent(gomock.Any(), payload, "").
		Return(domain.ErrInvalidSignature)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + CheckoutWebhookRoute,
		Body:   bytes.NewReader(payload),
	})
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(res.Body.Close())
	}()

	s.Equal(http.StatusBadRequest, res.StatusCode)
}

func (s *CheckoutHandlerTestSuite) postCreateSession(payload gin.H, jwtToken string) *http.Response {
	s.T().Helper()

	body, marshalErr := json.Marshal(payload)
	s.Require().NoError(marshalErr)

	reqOpts := []func(*testutils.RequestOptions){
		testutils.WithHeader("Content-Type", "application/json"),
	}
	if jwtToken != "" {
		reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", jwtToken)))
	}

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + CheckoutSessionRoute,
		Body:   bytes.NewReader(body),
	}, reqOpts...)
	s.Require().NoError(err)
	return res
}
