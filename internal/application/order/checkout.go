package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// CheckoutUseCase orquesta el checkout: valida el carrito, calcula el total desde
// el catálogo, cobra en la pasarela y persiste la orden con su pago embebido en
// una sola escritura.
type CheckoutUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	log         *logger.Logger
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	log *logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		log:         log,
	}
}

// Checkout procesa la compra del buyer autenticado.
//
//   - Carrito vacío -> domain.ErrEmptyCart.
//   - El total se deriva SIEMPRE de los precios vigentes del catálogo, nunca de
//     un monto enviado por el cliente.
//   - Pasarela no disponible (error de transporte) -> domain.ErrGatewayUnavailable
//     y NO se persiste ninguna orden.
//   - Pago rechazado -> la orden SÍ se persiste (auditable) con status
//     "Not Processed" y payment.success=false; el caller se entera por el registro
//     de pago, no por un error.
//   - Pago capturado -> orden persistida con status inicial "Processing".
func (uc *CheckoutUseCase) Checkout(ctx context.Context, buyerID string, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	// El token pudo emitirse antes de que la cuenta desapareciera: re-verificar.
	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, domain.ErrUnauthorized
	}

	if len(in.ProductIDs) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if in.PaymentMethodNonce == "" {
		return nil, domain.NewValidationError("payment_method_nonce", "requerido")
	}

	amount := decimal.Zero
	for _, pid := range in.ProductIDs {
		product, err := uc.productRepo.GetByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewValidationError("products", "referencia de producto inexistente: "+pid)
		}
		amount = amount.Add(product.Price)
	}

	payment, err := uc.gateway.Charge(ctx, amount, in.PaymentMethodNonce)
	if err != nil {
		// Fallo de transporte: no hay resultado confiable, no se persiste nada.
		// No se reintenta: el nonce ya pudo haberse consumido.
		uc.log.Error().Err(err).Str("buyer", buyerID).Msg("pasarela de pagos no disponible, checkout abortado")
		if errors.Is(err, domain.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, domain.ErrGatewayUnavailable
	}

	status := entity.StatusProcessing
	if !payment.Success {
		status = entity.StatusNotProcessed
	}
	now := time.Now()
	ord := &entity.Order{
		ID:         uuid.New().String(),
		BuyerID:    buyer.ID,
		ProductIDs: in.ProductIDs,
		Payment:    *payment,
		Status:     status,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Orden + pago viajan en un solo insert: nunca queda pago sin orden ni orden sin pago.
	if err := uc.orderRepo.Create(ctx, ord); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order", ord.ID).
		Str("buyer", buyer.ID).
		Bool("payment_success", payment.Success).
		Str("status", string(ord.Status)).
		Msg("checkout persistido")

	return ToOrderResponse(ord), nil
}

// ToOrderResponse mapea la entidad a su DTO de salida.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		ProductIDs: o.ProductIDs,
		Payment: dto.PaymentResponse{
			Success: o.Payment.Success,
			Message: o.Payment.Message,
			Transaction: dto.TransactionResponse{
				ID:                 o.Payment.Transaction.ID,
				Amount:             o.Payment.Transaction.Amount,
				PaymentMethodNonce: o.Payment.Transaction.PaymentMethodNonce,
				Type:               o.Payment.Transaction.Type,
			},
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
