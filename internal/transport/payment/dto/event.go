package dto

// Event - уведомление провайдера, доставляемое на вебхук. Нам интересен только
// тип checkout.session.completed, остальные типы подтверждаются без обработки.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	Object CheckoutSession `json:"object"`
}

// CheckoutSession - объект сессии внутри события. Metadata содержит ровно то,
// что было записано при создании сессии: id юзера и сериализованную корзину.
type CheckoutSession struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}
