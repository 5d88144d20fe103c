package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/payment/mocks"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/payment/webhook"
)

type ProcessorTestSuite struct {
	suite.Suite
	mockOrderSvs *mocks.MockOrderServicer
	processor    *Processor
	secret       []byte
	now          time.Time
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockOrderSvs = mocks.NewMockOrderServicer(mockCtrl)
	s.secret = []byte("whsec_test")
	s.now = time.Unix(1700000000, 0)

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.processor = New(s.mockOrderSvs, s.secret, l)
	s.processor.now = func() time.Time { return s.now }
}

// completedEventPayload собирает тело события checkout.session.completed
// с метаданными в том виде, в котором их пишет чекаут.
func (s *ProcessorTestSuite) completedEventPayload(sessionID string, userID string, items []domain.CartItem) []byte {
	cartJSON, err := json.Marshal(items)
	s.Require().NoError(err)

	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": EventCheckoutSessionCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id": sessionID,
				"metadata": map[string]string{
					service.MetadataUserIDKey:    userID,
					service.MetadataCartItemsKey: string(cartJSON),
				},
			},
		},
	})
	s.Require().NoError(err)
	return payload
}

func (s *ProcessorTestSuite) TestCompletedSessionCreatesOrder() {
	items := []domain.CartItem{
		{
			ProductID:          1,
			Title:              "Essence Mascara",
			Price:              decimal.RequireFromString("19.99"),
			DiscountPercentage: decimal.RequireFromString("33"),
			Quantity:           2,
		},
	}
	payload := s.completedEventPayload("cs_test_1", "42", items)

	s.mockOrderSvs.EXPECT().
		CreateFromPaymentSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.CreateFromPaymentSessionArgs) (*domain.Order, error) {
			s.Equal(int64(42), args.UserID)
			s.Equal("cs_test_1", args.ProviderSessionID)
			s.Require().Len(args.Items, 1)
			s.Equal(items[0].ProductID, args.Items[0].ProductID)
			s.True(items[0].Price.Equal(args.Items[0].Price))
			return &domain.Order{ID: 1, UserID: 42, ProviderSessionID: "cs_test_1"}, nil
		})

	err := s.processor.HandleEvent(s.T().Context(), payload, webhook.Sign(payload, s.secret, s.now))
	s.Require().NoError(err)
}

func (s *ProcessorTestSuite) TestInvalidSignatureRejected() {
	payload := s.completedEventPayload("cs_test_1", "42", []domain.CartItem{
		{ProductID: 1, Title: "x", Price: decimal.RequireFromString("1"), Quantity: 1},
	})

	// До проверки подписи событие не обрабатывается.
	s.mockOrderSvs.EXPECT().CreateFromPaymentSession(gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		name   string
		header string
	}{
		{name: "wrong secret", header: webhook.Sign(payload, []byte("whsec_other"), s.now)},
		{name: "stale", header: webhook.Sign(payload, s.secret, s.now.Add(-time.Hour))},
		{name: "empty header", header: ""},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			err := s.processor.HandleEvent(s.T().Context(), payload, t.header)
			s.Require().ErrorIs(err, domain.ErrInvalidSignature)
		})
	}
}

func (s *ProcessorTestSuite) TestIgnoredEventsAreAcked() {
	// Чужие типы событий и мусорные payload подтверждаются без обращения к сервису.
	s.mockOrderSvs.EXPECT().CreateFromPaymentSession(gomock.Any(), gomock.Any()).Times(0)

	otherEvent, err := json.Marshal(map[string]any{
		"id":   "evt_2",
		"type": "payment_intent.succeeded",
	})
	s.Require().NoError(err)

	cases := []struct {
		name    string
		payload []byte
	}{
		{name: "other event type", payload: otherEvent},
		{name: "not json", payload: []byte("not json at all")},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			handleErr := s.processor.HandleEvent(s.T().Context(), t.payload, webhook.Sign(t.payload, s.secret, s.now))
			s.Require().NoError(handleErr)
		})
	}
}

func (s *ProcessorTestSuite) TestUnusableMetadataIsAcked() {
	// completed-событие с битыми метаданными: ретраить его бессмысленно,
	// провайдер пришлет ровно то же самое.
	s.mockOrderSvs.EXPECT().CreateFromPaymentSession(gomock.Any(), gomock.Any()).Times(0)

	emptyCart := s.completedEventPayload("cs_test_1", "42", []domain.CartItem{})

	badUserID, err := json.Marshal(map[string]any{
		"id":   "evt_3",
		"type": EventCheckoutSessionCompleted,
		"data": map[string]any{
			"object": map[string]any{
				"id": "cs_test_2",
				"metadata": map[string]string{
					service.MetadataUserIDKey:    "not-a-number",
					service.MetadataCartItemsKey: `[{"id":1,"title":"x","price":"1","quantity":1}]`,
				},
			},
		},
	})
	s.Require().NoError(err)

	cases := []struct {
		name    string
		payload []byte
	}{
		{name: "empty cart", payload: emptyCart},
		{name: "bad user id", payload: badUserID},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			handleErr := s.processor.HandleEvent(s.T().Context(), t.payload, webhook.Sign(t.payload, s.secret, s.now))
			s.Require().NoError(handleErr)
		})
	}
}

func (s *ProcessorTestSuite) TestPersistenceErrorIsAcked() {
	payload := s.completedEventPayload("cs_test_1", "42", []domain.CartItem{
		{ProductID: 1, Title: "x", Price: decimal.RequireFromString("1"), Quantity: 1},
	})

	s.mockOrderSvs.EXPECT().
		CreateFromPaymentSession(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db is down"))

	// Ошибка записи не транслируется провайдеру: доставка подтверждается,
	// повторная доставка упрется в идемпотентную вставку.
	err := s.processor.HandleEvent(s.T().Context(), payload, webhook.Sign(payload, s.secret, s.now))
	s.Require().NoError(err)
}
