package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProductRepository puerto de solo lectura sobre el catálogo.
// El catálogo en sí (CRUD, búsqueda) es un colaborador externo a este subsistema.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
