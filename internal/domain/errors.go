package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrGatewayUnavailable = errors.New("pasarela de pagos no disponible")
	ErrInvalidStatus      = errors.New("estado de orden fuera de la enumeración")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)

// ValidationError error de validación de esquema con el campo que falló,
// para que el caller pueda reportar exactamente qué campo rechazó el store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: campo %q: %s", e.Field, e.Message)
}

// NewValidationError construye un error de validación con campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation devuelve el *ValidationError envuelto en err, o nil si no lo hay.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
