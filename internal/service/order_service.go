package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jameszsun/dummy-ecommerce/internal/domain"
	"github.com/jameszsun/dummy-ecommerce/internal/repository/repoargs"
	"github.com/jameszsun/dummy-ecommerce/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

type CreateFromPaymentSessionArgs struct {
	UserID            int64
	ProviderSessionID string
	Items             []domain.CartItem
}

// CreateFromPaymentSession материализует заказ из оплаченной платежной сессии.
// Сумма пересчитывается по снапшоту корзины из метаданных сессии, каталог не опрашивается.
//
// Метод идемпотентен по ProviderSessionID: повторная доставка того же события
// упирается в уникальный констрейнт, и вместо вставки возвращается уже существующий
// заказ без ошибки. "Уже существует" здесь - успех, а не сбой.
//
// Заказ и его позиции пишутся одной транзакцией: заказ без позиций снаружи не наблюдаем.
func (o *OrderService) CreateFromPaymentSession(
	ctx context.Context,
	args CreateFromPaymentSessionArgs,
) (*domain.Order, error) {
	total := cartTotal(args.Items)

	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = repo.CreateOrder(c, repoargs.CreateOrder{
			UserID:            args.UserID,
			ProviderSessionID: args.ProviderSessionID,
			Total:             total,
			Status:            domain.OrderStatusCompleted,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		items := make([]repoargs.CreateOrderItem, len(args.Items))
		for i, item := range args.Items {
			items[i] = repoargs.CreateOrderItem{
				ProductID:          item.ProductID,
				Title:              item.Title,
				Thumbnail:          item.Thumbnail,
				Quantity:           item.Quantity,
				Price:              item.Price,
				DiscountPercentage: item.DiscountPercentage,
			}
		}
		return repo.CreateOrderItems(c, order.ID, items)
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrDuplicateKey) {
			existing, findErr := o.orderRepo.FindByProviderSessionID(ctx, args.ProviderSessionID)
			if findErr != nil {
				return nil, fmt.Errorf("creating order from payment session: %w", findErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("creating order from payment session: %w", txErr)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера с позициями, отсортированные по дате создания по убыванию.
// Для юзера без заказов возвращает пустой срез, а не ошибку.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}
