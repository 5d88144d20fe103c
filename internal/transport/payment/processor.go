// Package payment обрабатывает асинхронные уведомления платежного провайдера
// и превращает оплаченную сессию ровно в один заказ.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/payment/dto"
	"github.com/jameszsun/dummy-ecommerce/internal/transport/payment/webhook"
)

// EventCheckoutSessionCompleted - единственный тип события, создающий заказ.
// Остальные типы подтверждаются без обработки: провайдер может начать слать
// новые типы в любой момент.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// Processor проверяет подлинность уведомления, фильтрует его по типу и идемпотентно
// материализует заказ из метаданных сессии.
type Processor struct {
	orderSvs      OrderServicer
	webhookSecret []byte
	now           func() time.Time
	l             *logrus.Entry
}

func New(orderSvs OrderServicer, webhookSecret []byte, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "payment",
		"module":    "processor",
	})

	return &Processor{
		orderSvs:      orderSvs,
		webhookSecret: webhookSecret,
		now:           time.Now,
		l:             loggerEntry,
	}
}

// HandleEvent обрабатывает сырое тело вебхука с заголовком подписи.
//
// Возвращает domain.ErrInvalidSignature если подпись не сошлась - единственный случай,
// когда вызывающая сторона отвечает провайдеру отказом. Во всех остальных случаях
// возвращается nil и доставка подтверждается, даже при внутренней ошибке записи:
// неподтвержденная доставка заставит провайдера ретраить бесконечно, а идемпотентность
// вставки и так покрывает повторную доставку после временной недоступности базы.
// Ошибка записи - предмет алертинга по логам, а не сигнал к ретраю.
func (p *Processor) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	if sigErr := webhook.VerifySignature(payload, signatureHeader, p.webhookSecret, p.now()); sigErr != nil {
		p.l.WithError(sigErr).Warn("webhook signature rejected")
		return sigErr //nolint:wrapcheck
	}

	var event dto.Event
	if jsonErr := json.Unmarshal(payload, &event); jsonErr != nil {
		p.l.WithError(jsonErr).Error("webhook payload is not valid json")
		return nil
	}

	if event.Type != EventCheckoutSessionCompleted {
		p.l.WithField("eventType", event.Type).Debug("ignoring event type")
		return nil
	}

	args, parseErr := parseSessionMetadata(event.Data.Object)
	if parseErr != nil {
		p.l.WithError(parseErr).
			WithField("sessionID", event.Data.Object.ID).
			Error("completed session has unusable metadata")
		return nil
	}

	order, createErr := p.orderSvs.CreateFromPaymentSession(ctx, *args)
	if createErr != nil {
		p.l.WithError(createErr).
			WithField("sessionID", args.ProviderSessionID).
			Error("failed to persist order")
		return nil
	}

	p.l.WithFields(logrus.Fields{
		"orderID":   order.ID,
		"sessionID": args.ProviderSessionID,
	}).Info("order persisted")
	return nil
}

// parseSessionMetadata восстанавливает намерение заказа из метаданных сессии -
// ровно тот payload, что был записан при создании сессии.
func parseSessionMetadata(session dto.CheckoutSession) (*service.CreateFromPaymentSessionArgs, error) {
	userID, userIDErr := strconv.ParseInt(session.Metadata[service.MetadataUserIDKey], 10, 64)
	if userIDErr != nil {
		return nil, fmt.Errorf("parsing %s: %s", service.MetadataUserIDKey, userIDErr.Error())
	}

	var items []domain.CartItem
	if jsonErr := json.Unmarshal([]byte(session.Metadata[service.MetadataCartItemsKey]), &items); jsonErr != nil {
		return nil, fmt.Errorf("parsing %s: %s", service.MetadataCartItemsKey, jsonErr.Error())
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("metadata %s is empty", service.MetadataCartItemsKey)
	}

	return &service.CreateFromPaymentSessionArgs{
		UserID:            userID,
		ProviderSessionID: session.ID,
		Items:             items,
	}, nil
}
