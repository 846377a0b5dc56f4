package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// PaymentGateway puerto de salida hacia el procesador de pagos externo.
//
// Contrato de idempotencia: Charge es at-most-once y NO reintenta; el nonce es
// de un solo uso, reintentar con el mismo nonce fallaría o duplicaría el cobro.
// Cualquier política de reintento pertenece al caller y exige acuñar un nonce nuevo.
//
// Un pago RECHAZADO no es error: retorna un Payment con Success=false y el
// mensaje del procesador. Solo los fallos de transporte/conectividad (incluido
// timeout) retornan error, que el caller mapea a domain.ErrGatewayUnavailable
// y aborta la creación de la orden.
type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, nonce string) (*entity.Payment, error)
}

// ReceiptGenerator puerto para la representación PDF del comprobante de una orden.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, ord *entity.Order, buyer *entity.User, products []*entity.Product) ([]byte, error)
}
