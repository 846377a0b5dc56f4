package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/order"
	"github.com/jhoicas/Tienda-api/internal/domain"
)

// OrderHandler maneja checkout, consultas y transiciones de órdenes.
type OrderHandler struct {
	checkoutUC *order.CheckoutUseCase
	orderUC    *order.OrderUseCase
	receiptUC  *order.ReceiptUseCase
}

// NewOrderHandler construye el handler de órdenes.
func NewOrderHandler(checkoutUC *order.CheckoutUseCase, orderUC *order.OrderUseCase, receiptUC *order.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{checkoutUC: checkoutUC, orderUC: orderUC, receiptUC: receiptUC}
}

// Checkout godoc
// @Summary      Procesar compra del carrito
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "products, payment_method_nonce"
// @Success      201   {object}  dto.OrderResponse  "incluye payment.success=false si el pago fue rechazado"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse  "pasarela no disponible, no se persistió orden"
// @Router       /api/orders/checkout [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	out, err := h.checkoutUC.Checkout(c.Context(), GetUserID(c), in)
	if err != nil {
		return orderError(c, err)
	}
	// 201 también para pagos rechazados: el resultado real viaja en payment.
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes (scope=own propias, scope=all solo admin)
// @Tags         orders
// @Produce      json
// @Param        scope  query  string  false  "own | all"
// @Success      200  {object}  dto.OrdersResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.orderUC.List(c.Context(), GetUserID(c), GetRole(c), c.Query("scope", order.ScopeOwn))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener una orden (dueño o admin)
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.orderUC.Get(c.Context(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Transicionar el estado de una orden (solo admin)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "order id"
// @Param        body  body  dto.UpdateStatusRequest  true  "status destino"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse  "otra transición concurrente ganó"
// @Failure      422  {object}  dto.ErrorResponse  "estado inválido o transición no permitida"
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	out, err := h.orderUC.UpdateStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar una orden (dueño o admin, solo pre-Delivered)
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  dto.OrderResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.orderUC.Cancel(c.Context(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una orden pagada (dueño o admin)
// @Tags         orders
// @Produce      application/pdf
// @Param        id  path  string  true  "order id"
// @Success      200  {file}  binary
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receiptUC.DownloadReceipt(c.Context(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return orderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// orderError mapea errores de dominio a respuestas HTTP. Las negativas de
// autorización usan siempre el 401 genérico.
func orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "orden no encontrada", Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "el carrito está vacío", Code: "EMPTY_CART"})
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Message: "pasarela de pagos no disponible, intente más tarde", Code: "PAYMENT_UNAVAILABLE"})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Message: "estado fuera de la enumeración", Code: "INVALID_STATUS"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Message: "transición de estado no permitida", Code: "INVALID_TRANSITION"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Message: "la orden fue modificada por otra operación, vuelva a intentar", Code: "CONFLICT"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "entrada inválida", Code: "VALIDATION"})
	}
	if ve := domain.AsValidation(err); ve != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: ve.Message, Code: "VALIDATION", Field: ve.Field})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "error interno", Code: "INTERNAL"})
}
