package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List devuelve todos los usuarios en orden de inserción.
	List(ctx context.Context) ([]*entity.User, error)
	// GetRole resuelve el rol VIGENTE del usuario; el RBAC lo consulta en cada
	// chequeo en lugar de confiar en un claim cacheado del token.
	GetRole(ctx context.Context, id string) (string, error)
}
