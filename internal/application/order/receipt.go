package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una orden pagada.
type ReceiptUseCase struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// DownloadReceipt recupera la orden, verifica dueño-o-admin y que el pago fue
// capturado, y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)     si todo sale bien.
//   - domain.ErrNotFound            si la orden no existe.
//   - domain.ErrUnauthorized        si el caller no es dueño ni admin.
//   - domain.ErrInvalidInput        si el pago de la orden fue rechazado.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, callerID, callerRole, orderID string) (pdfBytes []byte, filename string, err error) {
	ord, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener orden: %w", err)
	}
	if ord == nil {
		return nil, "", domain.ErrNotFound
	}
	if ord.BuyerID != callerID && callerRole != entity.RoleAdmin {
		return nil, "", domain.ErrUnauthorized
	}
	if !ord.Payment.Success {
		return nil, "", domain.ErrInvalidInput // sin pago capturado no hay comprobante
	}

	buyer, err := uc.userRepo.GetByID(ctx, ord.BuyerID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener comprador: %w", err)
	}
	if buyer == nil {
		return nil, "", domain.ErrUserNotFound
	}

	products := make([]*entity.Product, 0, len(ord.ProductIDs))
	for _, pid := range ord.ProductIDs {
		p, err := uc.productRepo.GetByID(ctx, pid)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: obtener producto %s: %w", pid, err)
		}
		if p != nil {
			products = append(products, p)
		}
	}

	pdfBytes, err = uc.generator.GenerateReceipt(ctx, ord, buyer, products)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar PDF: %w", err)
	}
	return pdfBytes, fmt.Sprintf("comprobante-%s.pdf", ord.ID), nil
}
