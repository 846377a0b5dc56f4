package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Tienda-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "tienda-api-test"
	testExpMin    = 60

	adminID   = "00000000-0000-0000-0000-000000000001"
	buyerID   = "00000000-0000-0000-0000-000000000002"
	deletedID = "00000000-0000-0000-0000-000000000099"
)

// stubRoleResolver resuelve roles desde un mapa en memoria, emulando la consulta
// fresca a la base de datos que hace el RBAC en cada request.
type stubRoleResolver struct {
	roles map[string]string
}

func (s *stubRoleResolver) GetRole(_ context.Context, userID string) (string, error) {
	role, ok := s.roles[userID]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return role, nil
}

func newResolver() *stubRoleResolver {
	return &stubRoleResolver{roles: map[string]string{
		adminID: entity.RoleAdmin,
		buyerID: entity.RoleBuyer,
	}}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y cargar el user_id
//   - RequireRole que re-resuelve el rol contra el resolver
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(resolver *stubRoleResolver, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(resolver, allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT válido para el userID indicado.
func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// assertUnauthorizedBody verifica el cuerpo exacto de una negativa de autorización:
// {"success":false,"message":"Unauthorized Access"} sin datos parciales.
func assertUnauthorizedBody(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"], "success debe ser false")
	assert.Equal(t, "Unauthorized Access", body["message"], "mensaje genérico, sin detalle del chequeo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenFor(t, adminID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"], "el role resuelto debe ser admin")
}

// Caso 1b: multi-rol — buyer puede acceder a ruta que permite buyer o admin.
func TestRequireRole_BuyerAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleBuyer, entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenFor(t, buyerID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: buyer contra ruta solo-admin → 401 con el cuerpo genérico exacto.
func TestRequireRole_BuyerBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenFor(t, buyerID))
	defer resp.Body.Close()

	assertUnauthorizedBody(t, resp)
}

// Caso 3: el rol se re-resuelve en cada request — un admin degradado a buyer
// pierde acceso de inmediato aunque su token siga siendo válido.
func TestRequireRole_RolDegradadoNoSeHonra(t *testing.T) {
	resolver := newResolver()
	app := buildTestApp(resolver, entity.RoleAdmin)
	token := tokenFor(t, adminID)

	resp := doRequest(t, app, "/protected", token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "antes de la democión debe pasar")

	// Democión: el mismo token ya no debe servir.
	resolver.roles[adminID] = entity.RoleBuyer

	resp = doRequest(t, app, "/protected", token)
	defer resp.Body.Close()
	assertUnauthorizedBody(t, resp)
}

// Caso 4: token válido de un usuario que ya no existe → 401.
func TestRequireRole_UsuarioEliminado_Retorna401(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin, entity.RoleBuyer)
	resp := doRequest(t, app, "/protected", tokenFor(t, deletedID))
	defer resp.Body.Close()

	assertUnauthorizedBody(t, resp)
}

// Caso 5: sin header Authorization → 401.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assertUnauthorizedBody(t, resp)
}

// Caso 6: token malformado → 401.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assertUnauthorizedBody(t, resp)
}

// Caso 7: token expirado → 401 aunque la firma sea correcta.
func TestRequireRole_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, adminID, testIssuer, -1) // ya expirado
	require.NoError(t, err)

	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()
	assertUnauthorizedBody(t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción del user_id
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, buyerID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, buyerID, body["user_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, buyerID, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, buyerID, userID)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, buyerID, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, buyerID, testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

// El body de una negativa nunca debe contener datos del recurso protegido.
func TestRequireRole_NegativaNoFiltraDatos(t *testing.T) {
	app := buildTestApp(newResolver(), entity.RoleAdmin)
	resp := doRequest(t, app, "/protected", tokenFor(t, buyerID))
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ok", "la negativa no debe incluir datos parciales del handler")
}
