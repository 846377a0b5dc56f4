package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/gateway"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCharge_PagoAprobado(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "approved",
			"transaction": {"id": "tx-123", "amount": 63000.00, "type": "sale"}
		}`))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 2*time.Second)
	payment, err := client.Charge(context.Background(), amount("63000.00"), "nonce-valido")
	require.NoError(t, err)

	assert.True(t, payment.Success)
	assert.Equal(t, "approved", payment.Message)
	assert.Equal(t, "tx-123", payment.Transaction.ID)
	assert.Equal(t, "sale", payment.Transaction.Type)
	assert.Equal(t, "nonce-valido", payment.Transaction.PaymentMethodNonce)
	assert.True(t, payment.Transaction.Amount.Equal(amount("63000.00")))

	assert.Equal(t, "Bearer clave-de-test", gotAuth)
	assert.Equal(t, "sale", gotBody["type"])
	assert.Equal(t, "nonce-valido", gotBody["payment_method_nonce"])
}

// Un rechazo del procesador es un resultado, no un error.
func TestCharge_PagoRechazado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "card declined", "transaction": {}}`))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 2*time.Second)
	payment, err := client.Charge(context.Background(), amount("100.00"), "nonce-rechazado")
	require.NoError(t, err)

	assert.False(t, payment.Success)
	assert.Equal(t, "card declined", payment.Message)
	// Aunque el procesador omita la transacción, el monto solicitado se espeja.
	assert.True(t, payment.Transaction.Amount.Equal(amount("100.00")))
}

func TestCharge_Respuesta5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 2*time.Second)
	_, err := client.Charge(context.Background(), amount("100.00"), "nonce-valido")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestCharge_ProcesadorInalcanzable(t *testing.T) {
	// Servidor cerrado de inmediato: la conexión se rechaza.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 2*time.Second)
	_, err := client.Charge(context.Background(), amount("100.00"), "nonce-valido")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestCharge_TimeoutDelProcesador(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 50*time.Millisecond)
	_, err := client.Charge(context.Background(), amount("100.00"), "nonce-valido")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestCharge_RespuestaIlegible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>esto no es json</html>`))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, "clave-de-test", 2*time.Second)
	_, err := client.Charge(context.Background(), amount("100.00"), "nonce-valido")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestCharge_MontoNoPositivo(t *testing.T) {
	client := gateway.NewHTTPClient("http://pasarela.invalid", "clave-de-test", time.Second)

	_, err := client.Charge(context.Background(), decimal.Zero, "nonce-valido")
	ve := domain.AsValidation(err)
	require.NotNil(t, ve)
	assert.Equal(t, "amount", ve.Field)
}
