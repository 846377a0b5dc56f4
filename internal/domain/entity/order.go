package entity

import (
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// OrderStatus enumeración cerrada de estados de una orden.
type OrderStatus string

const (
	StatusNotProcessed OrderStatus = "Not Processed" // pago rechazado o pendiente de captura
	StatusProcessing   OrderStatus = "Processing"    // pago capturado, orden en preparación
	StatusShipped      OrderStatus = "Shipped"
	StatusDelivered    OrderStatus = "Delivered" // terminal
	StatusCancelled    OrderStatus = "Cancelled" // terminal, alcanzable desde cualquier estado pre-Delivered
)

// ValidStatus indica si el valor pertenece a la enumeración cerrada.
// Cualquier otro valor se rechaza en creación/actualización, nunca se coerciona.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusNotProcessed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusNotProcessed: {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing:   {StatusShipped: true, StatusCancelled: true},
	StatusShipped:      {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:    {},
	StatusCancelled:    {},
}

// CanTransition indica si el cambio from -> to está permitido por la máquina de estados.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Order referencia una lista no vacía de productos, un único comprador y el
// registro de pago embebido. Version habilita control optimista de concurrencia
// en las transiciones de estado (last-writer-wins explícito, no silencioso).
type Order struct {
	ID         string
	BuyerID    string
	ProductIDs []string // secuencia ordenada de referencias a Product
	Payment    Payment
	Status     OrderStatus
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate aplica la validación de esquema de la orden. Cada rechazo nombra el
// campo que falló; el Order Store la ejecuta en cada escritura.
func (o *Order) Validate() error {
	if len(o.ProductIDs) == 0 {
		return domain.NewValidationError("products", "debe ser una lista no vacía de referencias a producto")
	}
	for _, id := range o.ProductIDs {
		if id == "" {
			return domain.NewValidationError("products", "contiene una referencia de producto inválida")
		}
	}
	if o.BuyerID == "" {
		return domain.NewValidationError("buyer", "debe ser una referencia válida a usuario")
	}
	if !ValidStatus(o.Status) {
		return domain.NewValidationError("status", "valor fuera de la enumeración de estados")
	}
	return nil
}
