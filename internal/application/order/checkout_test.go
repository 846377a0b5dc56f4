package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/order"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// ─────────────────────────────────────────────
// Fakes compartidos por los tests del paquete
// ─────────────────────────────────────────────

type fakeOrderRepo struct {
	orders []*entity.Order
	// conflictOn fuerza ErrConflict en UpdateStatus para simular una
	// transición concurrente que ganó la carrera.
	conflictOn string
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context) ([]*entity.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, version int) (*entity.Order, error) {
	if id == f.conflictOn {
		return nil, domain.ErrConflict
	}
	for _, o := range f.orders {
		if o.ID != id {
			continue
		}
		if o.Version != version {
			return nil, domain.ErrConflict
		}
		o.Status = status
		o.Version++
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeBuyerRepo struct {
	users map[string]*entity.User
}

func (f *fakeBuyerRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeBuyerRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeBuyerRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeBuyerRepo) Update(_ context.Context, _ *entity.User) error { return nil }

func (f *fakeBuyerRepo) List(_ context.Context) ([]*entity.User, error) { return nil, nil }

func (f *fakeBuyerRepo) GetRole(_ context.Context, id string) (string, error) {
	if u, ok := f.users[id]; ok {
		return u.Role, nil
	}
	return "", domain.ErrUserNotFound
}

// fakeGateway devuelve un resultado fijo o un error, y registra cada cargo.
type fakeGateway struct {
	success bool
	message string
	err     error

	charges []decimal.Decimal
}

func (f *fakeGateway) Charge(_ context.Context, amount decimal.Decimal, nonce string) (*entity.Payment, error) {
	f.charges = append(f.charges, amount)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Payment{
		Success: f.success,
		Message: f.message,
		Transaction: entity.Transaction{
			ID:                 uuid.New().String(),
			Amount:             amount,
			PaymentMethodNonce: nonce,
			Type:               entity.TransactionTypeSale,
		},
	}, nil
}

const checkoutBuyerID = "buyer-checkout"

func checkoutFixture(gw *fakeGateway) (*order.CheckoutUseCase, *fakeOrderRepo) {
	orders := &fakeOrderRepo{}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-cafe":   {ID: "prod-cafe", Name: "Café de origen 500g", Price: decimal.RequireFromString("38000.00")},
		"prod-taza":   {ID: "prod-taza", Name: "Taza de cerámica", Price: decimal.RequireFromString("25000.00")},
		"prod-molino": {ID: "prod-molino", Name: "Molino manual", Price: decimal.RequireFromString("145000.00")},
	}}
	users := &fakeBuyerRepo{users: map[string]*entity.User{
		checkoutBuyerID: {ID: checkoutBuyerID, Name: "Ana", Email: "ana@tienda.test", Role: entity.RoleBuyer},
	}}
	return order.NewCheckoutUseCase(orders, products, users, gw, logger.Nop()), orders
}

// ─────────────────────────────────────────────
// Checkout
// ─────────────────────────────────────────────

func TestCheckout_PagoCapturado(t *testing.T) {
	gw := &fakeGateway{success: true, message: "approved"}
	uc, repo := checkoutFixture(gw)

	out, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs:         []string{"prod-cafe", "prod-taza"},
		PaymentMethodNonce: "nonce-valido",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, string(entity.StatusProcessing), out.Status)
	assert.True(t, out.Payment.Success)
	assert.Equal(t, checkoutBuyerID, out.BuyerID)
	require.Len(t, repo.orders, 1, "una sola escritura con orden y pago juntos")

	// El total es la suma de los precios vigentes del catálogo.
	require.Len(t, gw.charges, 1)
	assert.True(t, gw.charges[0].Equal(decimal.RequireFromString("63000.00")),
		"monto cobrado %s", gw.charges[0])
}

// Un pago rechazado NO es un error: la orden se persiste auditada con
// "Not Processed" y el resultado viaja en el registro de pago.
func TestCheckout_PagoRechazado_SePersisteIgual(t *testing.T) {
	gw := &fakeGateway{success: false, message: "insufficient funds"}
	uc, repo := checkoutFixture(gw)

	out, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs:         []string{"prod-molino"},
		PaymentMethodNonce: "nonce-sin-fondos",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusNotProcessed), out.Status)
	assert.False(t, out.Payment.Success)
	assert.Equal(t, "insufficient funds", out.Payment.Message)
	assert.Len(t, repo.orders, 1)
}

// Pasarela caída: no queda NINGUNA orden persistida y no se reintenta el cobro.
func TestCheckout_PasarelaCaida_NoPersisteNada(t *testing.T) {
	gw := &fakeGateway{err: domain.ErrGatewayUnavailable}
	uc, repo := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs:         []string{"prod-cafe"},
		PaymentMethodNonce: "nonce-valido",
	})
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Empty(t, repo.orders)
	assert.Len(t, gw.charges, 1, "exactamente un intento de cobro, sin reintentos")
}

// Cualquier error de transporte se normaliza al error de pasarela, sin filtrar detalle.
func TestCheckout_ErrorDeTransporteSeNormaliza(t *testing.T) {
	gw := &fakeGateway{err: errors.New("dial tcp: connection refused")}
	uc, repo := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs:         []string{"prod-cafe"},
		PaymentMethodNonce: "nonce-valido",
	})
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Empty(t, repo.orders)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	gw := &fakeGateway{success: true}
	uc, _ := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		PaymentMethodNonce: "nonce-valido",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, gw.charges, "sin carrito no hay cobro")
}

func TestCheckout_ProductoInexistente(t *testing.T) {
	gw := &fakeGateway{success: true}
	uc, repo := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs:         []string{"prod-cafe", "prod-fantasma"},
		PaymentMethodNonce: "nonce-valido",
	})
	ve := domain.AsValidation(err)
	require.NotNil(t, ve)
	assert.Equal(t, "products", ve.Field)
	assert.Empty(t, gw.charges, "no se cobra un carrito inválido")
	assert.Empty(t, repo.orders)
}

func TestCheckout_SinNonce(t *testing.T) {
	gw := &fakeGateway{success: true}
	uc, _ := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), checkoutBuyerID, dto.CheckoutRequest{
		ProductIDs: []string{"prod-cafe"},
	})
	ve := domain.AsValidation(err)
	require.NotNil(t, ve)
	assert.Equal(t, "payment_method_nonce", ve.Field)
}

// El token pudo sobrevivir a la cuenta: un buyer borrado no puede comprar.
func TestCheckout_BuyerInexistente(t *testing.T) {
	gw := &fakeGateway{success: true}
	uc, _ := checkoutFixture(gw)

	_, err := uc.Checkout(context.Background(), "buyer-borrado", dto.CheckoutRequest{
		ProductIDs:         []string{"prod-cafe"},
		PaymentMethodNonce: "nonce-valido",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
