package dto

// ErrorResponse cuerpo de error HTTP.
// Success siempre false; los fallos de autorización usan exactamente
// {"success":false,"message":"Unauthorized Access"} sin revelar qué chequeo falló.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"` // presente en errores de validación de esquema
}

// Unauthorized respuesta genérica 401. Mensaje fijo para evitar enumeración de roles.
func Unauthorized() ErrorResponse {
	return ErrorResponse{Success: false, Message: "Unauthorized Access"}
}
