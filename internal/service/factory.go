package service

import (
	"fmt"

	"github.com/jameszsun/dummy-ecommerce/internal/service/psswd"
	"github.com/jameszsun/dummy-ecommerce/pkg/uow"
)

type AppServices struct {
	UserService     *UserService
	CheckoutService *CheckoutService
	OrderService    *OrderService
}

type FactoryArgs struct {
	JWTSecret     []byte
	PaymentClient PaymentClient
	FrontendURL   string
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret, psswd.PasswordHash(""))
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	checkoutService := NewCheckoutService(args.PaymentClient, args.FrontendURL)

	return &AppServices{
		UserService:     userService,
		CheckoutService: checkoutService,
		OrderService:    orderService,
	}, nil
}
