package entity

import "github.com/shopspring/decimal"

// TransactionTypeSale es el único tipo de transacción soportado por el sistema.
const TransactionTypeSale = "sale"

// Transaction parámetros de la transacción enviada a la pasarela.
type Transaction struct {
	ID                 string          `json:"id,omitempty"` // referencia asignada por el procesador
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethodNonce string          `json:"payment_method_nonce"` // token opaco de un solo uso
	Type               string          `json:"type"`                 // siempre "sale"
}

// Payment resultado del cobro, propiedad exclusiva de su Order (se persiste
// embebido, nunca referenciado de forma independiente).
//
// Success y Message son campos independientes: un pago rechazado trae
// Success=false con el mensaje del procesador, sin que eso sea un error
// de la aplicación.
type Payment struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Transaction Transaction `json:"transaction"`
}
