package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleBuyer = "buyer"
)

// ValidRole indica si el rol pertenece a la enumeración cerrada.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleBuyer
}

// User representa una cuenta de la tienda.
type User struct {
	ID           string
	Name         string
	Email        string // único en todo el sistema
	PasswordHash string // hash bcrypt, nunca el secreto en claro
	Role         string // admin | buyer
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
