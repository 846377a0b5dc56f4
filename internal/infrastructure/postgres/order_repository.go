package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// El Payment viaja embebido como JSONB en la misma fila: orden y pago se
// persisten en un único INSERT (nunca queda uno sin el otro).
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador de persistencia para órdenes.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, buyer_id, product_ids, payment, status, version, created_at, updated_at`

// Create valida el esquema de la orden y la persiste con su pago embebido.
// Los rechazos de validación nombran el campo que falló.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	paymentJSON, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}
	query := `
		INSERT INTO orders (id, buyer_id, product_ids, payment, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.pool.Exec(ctx, query,
		order.ID, order.BuyerID, order.ProductIDs, paymentJSON, string(order.Status), order.Version,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		// La FK de buyer_id respalda la validación de referencia en el esquema.
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("buyer", "referencia a usuario inexistente")
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID ((nil, nil) si no existe).
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	ord, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return ord, nil
}

// ListByBuyer devuelve las órdenes del comprador en orden de inserción.
func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at ASC`
	return r.queryOrders(ctx, query, buyerID)
}

// ListAll devuelve todas las órdenes en orden de inserción.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at ASC`
	return r.queryOrders(ctx, query)
}

// UpdateStatus persiste la transición con control optimista: el WHERE exige la
// versión leída por el caller. Si otra transición concurrente ganó, no hay fila
// afectada y se devuelve domain.ErrConflict en lugar de pisar silenciosamente.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, version int) (*entity.Order, error) {
	if !entity.ValidStatus(status) {
		return nil, domain.NewValidationError("status", "valor fuera de la enumeración de estados")
	}
	query := `
		UPDATE orders
		SET status = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING ` + orderColumns
	ord, err := scanOrder(r.pool.QueryRow(ctx, query, id, version, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// O la orden no existe o la versión quedó atrás; distinguirlo requiere
			// una lectura extra.
			existing, gErr := r.GetByID(ctx, id)
			if gErr != nil {
				return nil, gErr
			}
			if existing == nil {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return ord, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, ord)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o           entity.Order
		paymentJSON []byte
		status      string
	)
	if err := row.Scan(&o.ID, &o.BuyerID, &o.ProductIDs, &paymentJSON, &status, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(paymentJSON, &o.Payment); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
