package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
)

// DefaultTolerance - максимально допустимый возраст подписанного события. Защита от
// replay старых перехваченных доставок.
const DefaultTolerance = 5 * time.Minute

// VerifySignature проверяет подпись вебхука по схеме провайдера: заголовок вида
// `t=<unix ts>,v1=<hex hmac>`, где hmac-sha256 считается от строки `<ts>.<raw body>`
// общим секретом. Любая проблема (формат заголовка, возраст, несовпадение MAC)
// возвращается как domain.ErrInvalidSignature: провайдеру такой запрос повторять бессмысленно.
func VerifySignature(payload []byte, header string, secret []byte, now time.Time) error {
	timestamp, signatures, parseErr := parseSignatureHeader(header)
	if parseErr != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSignature, parseErr.Error())
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > DefaultTolerance || age < -DefaultTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", domain.ErrInvalidSignature)
	}

	expected := computeSignature(payload, timestamp, secret)
	for _, signature := range signatures {
		sig, decodeErr := hex.DecodeString(signature)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", domain.ErrInvalidSignature)
}

// Sign формирует значение заголовка подписи для payload. Используется клиентом провайдера
// в тестах и нигде больше: сервер подписи только проверяет.
func Sign(payload []byte, secret []byte, at time.Time) string {
	ts := at.Unix()
	mac := computeSignature(payload, ts, secret)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac))
}

func computeSignature(payload []byte, timestamp int64, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("empty signature header")
	}

	var timestamp int64 = -1
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return 0, nil, fmt.Errorf("malformed signature header")
		}
		switch parts[0] {
		case "t":
			ts, tsErr := strconv.ParseInt(parts[1], 10, 64)
			if tsErr != nil {
				return 0, nil, fmt.Errorf("malformed timestamp: %s", tsErr.Error())
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		default:
			// неизвестные схемы (v0 и прочие) пропускаем
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("signature header missing t or v1")
	}
	return timestamp, signatures, nil
}
