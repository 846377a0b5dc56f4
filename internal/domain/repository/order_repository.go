package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
// Toda escritura valida el esquema de la entidad; la orden y su pago embebido
// se persisten en una sola escritura atómica.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByBuyer devuelve las órdenes del comprador en orden de inserción.
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error)
	// ListAll devuelve todas las órdenes en orden de inserción (solo admin).
	ListAll(ctx context.Context) ([]*entity.Order, error)
	// UpdateStatus persiste la transición solo si version coincide con la
	// versión actual; devuelve domain.ErrConflict si otro writer ganó.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, version int) (*entity.Order, error)
}
