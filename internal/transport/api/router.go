package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jameszsun/dummy-ecommerce/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup           = "/api"
	RegisterRoute        = "/auth/register"
	LoginRoute           = "/auth/login"
	MeRoute              = "/auth/me"
	CheckoutSessionRoute = "/checkout/create-session"
	CheckoutWebhookRoute = "/checkout/webhook"
	OrdersRoute          = "/orders"
	HealthRoute          = "/health"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	UserService     UserServicer
	CheckoutService CheckoutServicer
	OrderService    OrderServicer
	EventProcessor  EventProcessor
	JWTSecretKey    []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	checkoutHandler := NewCheckoutHandler(args.CheckoutService, args.EventProcessor)
	ordersHandler := NewOrdersHandler(args.OrderService)

	r.GET(HealthRoute, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, authHandler.Register)
	api.POST(LoginRoute, authHandler.Login)
	// Вебхук аутентифицируется подписью провайдера, а не токеном юзера.
	api.POST(CheckoutWebhookRoute, checkoutHandler.Webhook)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(MeRoute, authHandler.Me)
	api.POST(CheckoutSessionRoute, checkoutHandler.CreateSession)
	api.GET(OrdersRoute, ordersHandler.Index)

	return r
}
