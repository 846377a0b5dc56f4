package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/auth"
	"github.com/jhoicas/Tienda-api/internal/application/order"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ProductUC    *usecase.ProductUseCase
	CheckoutUC   *order.CheckoutUseCase
	OrderUC      *order.OrderUseCase
	ReceiptUC    *order.ReceiptUseCase
	RoleResolver roleResolver // re-resuelve el rol vigente en cada chequeo privilegiado
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(deps.RoleResolver, entity.RoleBuyer, entity.RoleAdmin)
	adminOnly := RequireRole(deps.RoleResolver, entity.RoleAdmin)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/me", anyRole, userHandler.Me)
	users.Put("/me/password", anyRole, userHandler.ChangePassword)
	users.Get("/", adminOnly, userHandler.List)

	// Products (catálogo de solo lectura)
	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/products", anyRole, productHandler.List)

	// Orders
	orderHandler := NewOrderHandler(deps.CheckoutUC, deps.OrderUC, deps.ReceiptUC)
	orders := protected.Group("/orders")
	// Cualquier rol autenticado puede comprar; el dueño queda fijado por el token.
	orders.Post("/checkout", anyRole, orderHandler.Checkout)
	orders.Get("/", anyRole, orderHandler.List)
	orders.Get("/:id", anyRole, orderHandler.Get)
	orders.Put("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Post("/:id/cancel", anyRole, orderHandler.Cancel)
	orders.Get("/:id/receipt", anyRole, orderHandler.Receipt)
}
