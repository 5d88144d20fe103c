package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/repoargs"
	"github.com/jameszsun/dummy-ecommerce/pkg/uow"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder вставляет заказ. Уникальность по provider_session_id и есть механизм дедупликации
// повторных доставок вебхука: при конфликте вставка не происходит (DO NOTHING) и метод возвращает
// domain.ErrDuplicateKey. Конкурентные доставки одного события сериализуются этим же констрейнтом,
// in-process локи не нужны.
func (o *OrderRepository) CreateOrder(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	const query = `
		INSERT INTO orders (user_id, provider_session_id, total, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_session_id) DO NOTHING
		RETURNING id, created_at, user_id, provider_session_id, total, status`

	var order domain.Order
	err := o.db.QueryRow(ctx, query, args.UserID, args.ProviderSessionID, args.Total, args.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UserID, &order.ProviderSessionID, &order.Total, &order.Status)
	if err != nil {
		// DO NOTHING при конфликте не возвращает строку - это дубликат, а не отсутствие записи.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("[repository/creating order for session `%s`] %w",
				args.ProviderSessionID, domain.ErrDuplicateKey)
		}
		return nil, convertErr(err, "creating order for session `%s`", args.ProviderSessionID)
	}
	return &order, nil
}

// CreateOrderItems вставляет позиции заказа батчем. Вызывается в той же транзакции что и CreateOrder:
// частичная запись (заказ без позиций) снаружи транзакции не наблюдаема.
func (o *OrderRepository) CreateOrderItems(ctx context.Context, orderID int64, items []repoargs.CreateOrderItem) error {
	const query = `
		INSERT INTO order_items (order_id, product_id, title, thumbnail, quantity, price, discount_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := new(pgx.Batch)
	for _, item := range items {
		batch.Queue(query,
			orderID, item.ProductID, item.Title, item.Thumbnail,
			item.Quantity, item.Price, item.DiscountPercentage)
	}

	results := o.db.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range items {
		if _, err := results.Exec(); err != nil {
			return convertErr(err, "creating order items for order %d", orderID)
		}
	}
	return nil
}

func (o *OrderRepository) FindByProviderSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	const query = `
		SELECT id, created_at, user_id, provider_session_id, total, status
		FROM orders
		WHERE provider_session_id = $1`

	var order domain.Order
	err := o.db.QueryRow(ctx, query, sessionID).
		Scan(&order.ID, &order.CreatedAt, &order.UserID, &order.ProviderSessionID, &order.Total, &order.Status)
	if err != nil {
		return nil, convertErr(err, "finding order by session `%s`", sessionID)
	}

	if err := o.attachItems(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUserID возвращает заказы юзера, отсортированные по дате создания по убыванию,
// вместе с их позициями.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	const query = `
		SELECT id, created_at, user_id, provider_session_id, total, status
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := o.db.Query(ctx, query, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID %d", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if scanErr := rows.Scan(
			&order.ID, &order.CreatedAt, &order.UserID,
			&order.ProviderSessionID, &order.Total, &order.Status,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning order for userID %d", userID)
		}
		orders = append(orders, order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting orders by userID %d", userID)
	}

	refs := make([]*domain.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if attachErr := o.attachItems(ctx, refs); attachErr != nil {
		return nil, attachErr
	}
	return orders, nil
}

// attachItems одним запросом загружает позиции для переданных заказов и раскладывает их по владельцам.
func (o *OrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Order, len(orders))
	ids := make([]int64, len(orders))
	for i, order := range orders {
		order.Items = []domain.OrderItem{}
		byID[order.ID] = order
		ids[i] = order.ID
	}

	const query = `
		SELECT id, order_id, product_id, title, thumbnail, quantity, price, discount_percentage
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`

	rows, err := o.db.Query(ctx, query, ids)
	if err != nil {
		return convertErr(err, "getting order items")
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if scanErr := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Title,
			&item.Thumbnail, &item.Quantity, &item.Price, &item.DiscountPercentage,
		); scanErr != nil {
			return convertErr(scanErr, "scanning order item")
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return convertErr(rowsErr, "getting order items")
	}
	return nil
}
