package order

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// Scope de listado de órdenes.
const (
	ScopeOwn = "own"
	ScopeAll = "all"
)

// OrderUseCase consultas y transiciones de estado sobre órdenes ya persistidas.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo}
}

// Get devuelve la orden si el caller es su dueño o tiene rol admin; en cualquier
// otro caso domain.ErrUnauthorized (mensaje genérico hacia afuera).
func (uc *OrderUseCase) Get(ctx context.Context, callerID, callerRole, orderID string) (*dto.OrderResponse, error) {
	ord, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if ord.BuyerID != callerID && callerRole != entity.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	return ToOrderResponse(ord), nil
}

// List devuelve órdenes según el scope:
//   - own: solo las del caller.
//   - all: todas, exclusivo de admin.
func (uc *OrderUseCase) List(ctx context.Context, callerID, callerRole, scope string) (*dto.OrdersResponse, error) {
	var (
		list []*entity.Order
		err  error
	)
	switch scope {
	case ScopeAll:
		if callerRole != entity.RoleAdmin {
			return nil, domain.ErrUnauthorized
		}
		list, err = uc.orderRepo.ListAll(ctx)
	case ScopeOwn, "":
		list, err = uc.orderRepo.ListByBuyer(ctx, callerID)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	out := dto.OrdersResponse{Orders: make([]dto.OrderResponse, 0, len(list))}
	for _, o := range list {
		out.Orders = append(out.Orders, *ToOrderResponse(o))
	}
	return &out, nil
}

// UpdateStatus aplica una transición solicitada por un admin.
//   - status fuera de la enumeración -> domain.ErrInvalidStatus.
//   - transición no alcanzable desde el estado actual -> domain.ErrInvalidTransition.
//   - version desactualizada (transición concurrente ganó) -> domain.ErrConflict.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID, newStatus string) (*dto.OrderResponse, error) {
	target := entity.OrderStatus(newStatus)
	if !entity.ValidStatus(target) {
		return nil, domain.ErrInvalidStatus
	}
	ord, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(ord.Status, target) {
		return nil, domain.ErrInvalidTransition
	}
	updated, err := uc.orderRepo.UpdateStatus(ctx, ord.ID, target, ord.Version)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// Cancel cancela la orden si el caller es su dueño o admin. Pasa por la misma
// máquina de estados: una orden Delivered ya no es cancelable.
func (uc *OrderUseCase) Cancel(ctx context.Context, callerID, callerRole, orderID string) (*dto.OrderResponse, error) {
	ord, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, domain.ErrNotFound
	}
	if ord.BuyerID != callerID && callerRole != entity.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	if !entity.CanTransition(ord.Status, entity.StatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}
	updated, err := uc.orderRepo.UpdateStatus(ctx, ord.ID, entity.StatusCancelled, ord.Version)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}
