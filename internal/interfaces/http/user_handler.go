package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain"
)

// UserHandler maneja perfil propio y el listado administrativo de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar todos los usuarios (solo admin)
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UsersResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "no se pudo listar usuarios", Code: "INTERNAL"})
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// El token era válido pero la cuenta ya no existe.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "no se pudo obtener el perfil", Code: "INTERNAL"})
	}
	return c.JSON(user)
}

// ChangePassword godoc
// @Summary      Cambiar el password propio
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido", Code: "INVALID_BODY"})
	}
	if in.CurrentPassword == "" || len(in.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "current_password y new_password (mínimo 8) son requeridos", Code: "VALIDATION"})
	}
	if err := h.uc.ChangePassword(c.Context(), GetUserID(c), in); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "no se pudo cambiar el password", Code: "INTERNAL"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
