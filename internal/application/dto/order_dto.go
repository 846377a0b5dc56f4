package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest entrada del checkout: referencias de producto y nonce de pago.
// El monto NO viaja en el request: se calcula del catálogo en el servidor.
type CheckoutRequest struct {
	ProductIDs         []string `json:"products" validate:"required,min=1"`
	PaymentMethodNonce string   `json:"payment_method_nonce" validate:"required"`
}

// TransactionResponse espejo de la transacción reportada por la pasarela.
type TransactionResponse struct {
	ID                 string          `json:"id,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethodNonce string          `json:"payment_method_nonce"`
	Type               string          `json:"type"`
}

// PaymentResponse registro de pago embebido en la orden.
// success y message son independientes: un rechazo viene con success=false y
// el mensaje del procesador, dentro de una respuesta HTTP exitosa.
type PaymentResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Transaction TransactionResponse `json:"transaction"`
}

// OrderResponse salida de una orden con su pago embebido.
type OrderResponse struct {
	ID         string          `json:"id"`
	BuyerID    string          `json:"buyer"`
	ProductIDs []string        `json:"products"`
	Payment    PaymentResponse `json:"payment"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrdersResponse listado de órdenes en orden de inserción.
type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// UpdateStatusRequest entrada para la transición de estado (solo admin).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
