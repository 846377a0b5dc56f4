package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es el colaborador de catálogo de solo lectura: checkout toma de aquí
// el precio vigente, nunca un monto enviado por el cliente.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
