package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
)

// roleResolver es el contrato mínimo que necesita el middleware para resolver el
// rol vigente. Lo implementa repository.UserRepository; el uso de interfaz evita
// acoplar el paquete http al de persistencia.
type roleResolver interface {
	GetRole(ctx context.Context, userID string) (string, error)
}

// RequireRole devuelve un middleware Fiber que re-resuelve el rol ACTUAL del
// usuario desde el store y exige que esté entre los permitidos. Debe usarse
// DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// El doble chequeo (token válido + rol fresco) evita honrar un rol degradado o
// una cuenta eliminada mientras el token siga vigente. Toda negativa responde
// 401 con el mensaje genérico "Unauthorized Access", sin revelar qué chequeo
// falló (evita enumeración de roles).
func RequireRole(resolver roleResolver, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
		}

		role, err := resolver.GetRole(c.Context(), userID)
		if err != nil {
			// Usuario inexistente o fallo de consulta: misma negativa genérica.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Locals(LocalRole, role)
				return c.Next()
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Unauthorized())
	}
}
