package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"io"
	"net/http"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/service"
)

const RouteCheckoutSessions = "/v1/checkout/sessions"

// requestTimeout - верхняя граница ожидания ответа провайдера. Вызов создания сессии -
// единственный внешний синхронный вызов ядра, висеть бесконечно он не должен.
const requestTimeout = 10 * time.Second

// HTTPClient является реализацией интерфейса service.PaymentClient поверх
// form-encoded API платежного провайдера.
type HTTPClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func New(baseURL, secretKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession создает hosted-сессию оплаты у провайдера.
// Таймаут и сетевые ошибки возвращаются как domain.ErrProviderUnavailable (клиенту
// безопасно повторить запрос), ответы 5xx - тоже. Прочие неожиданные статусы - StatusCodeError.
//
//nolint:nonamedreturns
func (c *HTTPClient) CreateCheckoutSession(
	ctx context.Context,
	args service.ProviderSessionArgs,
) (session *service.ProviderSession, err error) {
	form := encodeSessionForm(args)

	req, reqErr := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+RouteCheckoutSessions,
		strings.NewReader(form.Encode()),
	)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, errors.Wrapf(domain.ErrProviderUnavailable, "do request: %s", doErr.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body: %s", closeErr.Error())
		}
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read response: %s", readErr.Error())
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.Wrapf(domain.ErrProviderUnavailable, "provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode, string(body))
	}

	var parsed sessionResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		return nil, fmt.Errorf("parse response: %s", jsonErr.Error())
	}

	return &service.ProviderSession{
		ID:  parsed.ID,
		URL: parsed.URL,
	}, nil
}

// encodeSessionForm раскладывает аргументы сессии в form-encoded формат провайдера
// (вложенные поля кодируются квадратными скобками).
func encodeSessionForm(args service.ProviderSessionArgs) url.Values {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", args.SuccessURL)
	form.Set("cancel_url", args.CancelURL)

	for i, item := range args.LineItems {
		prefix := "line_items[" + strconv.Itoa(i) + "]"
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.ImageURL != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.ImageURL)
		}
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	for key, value := range args.Metadata {
		form.Set("metadata["+key+"]", value)
	}
	return form
}
