// Package gateway implementa el adaptador hacia el procesador de pagos externo.
//
// El procesador recibe un instrumento de pago tokenizado (nonce de un solo uso)
// más un monto, y responde un resultado estructurado. Se le trata como una
// dependencia externa NO confiable: un rechazo es un resultado normal, solo los
// fallos de transporte son errores.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/order"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

var _ order.PaymentGateway = (*HTTPClient)(nil)

// chargeRequest cuerpo enviado al procesador. Type siempre es "sale".
type chargeRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethodNonce string          `json:"payment_method_nonce"`
	Type               string          `json:"type"`
}

// chargeResponse respuesta del procesador. Success y Message son independientes:
// un rechazo trae success=false con el motivo y la transacción espejada.
type chargeResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Transaction struct {
		ID     string          `json:"id"`
		Amount decimal.Decimal `json:"amount"`
		Type   string          `json:"type"`
	} `json:"transaction"`
}

// HTTPClient implementa order.PaymentGateway contra el API HTTP del procesador.
type HTTPClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient construye el cliente. El timeout acota la llamada completa; al
// vencerse se reporta pasarela no disponible, nunca se reintenta con el mismo nonce.
func NewHTTPClient(url, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Charge envía una única transacción "sale" al procesador (at-most-once, sin reintentos).
//
//   - Rechazo del pago: retorna (*entity.Payment con Success=false, nil).
//   - Fallo de transporte, timeout o respuesta 5xx/ilegible: retorna
//     domain.ErrGatewayUnavailable; el caller NO debe persistir orden alguna.
func (c *HTTPClient) Charge(ctx context.Context, amount decimal.Decimal, nonce string) (*entity.Payment, error) {
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser un monto positivo")
	}

	body, err := json.Marshal(chargeRequest{
		Amount:             amount,
		PaymentMethodNonce: nonce,
		Type:               entity.TransactionTypeSale,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Conectividad o timeout: no hay resultado confiable del procesador.
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: el procesador respondió %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrGatewayUnavailable, err)
	}
	var out chargeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: respuesta ilegible: %v", domain.ErrGatewayUnavailable, err)
	}

	// Se espeja la transacción con lo solicitado aunque el procesador omita campos.
	txAmount := out.Transaction.Amount
	if txAmount.IsZero() {
		txAmount = amount
	}
	return &entity.Payment{
		Success: out.Success,
		Message: out.Message,
		Transaction: entity.Transaction{
			ID:                 out.Transaction.ID,
			Amount:             txAmount,
			PaymentMethodNonce: nonce,
			Type:               entity.TransactionTypeSale,
		},
	}, nil
}
