package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	apphttp "github.com/flowdash/flowdash-api/internal/interfaces/http"
	"github.com/flowdash/flowdash-api/pkg/token"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testIssuer = "flowdash-test"
	testUserID = int64(7)
	testOrgID  = int64(3)
)

// fakeActiveChecker simula la consulta viva de cuenta contra la base.
type fakeActiveChecker struct {
	users  map[int64]*entity.User
	dbDown bool
}

func (f *fakeActiveChecker) CheckActive(_ context.Context, userID int64) (*entity.User, error) {
	if f.dbDown {
		return nil, fmt.Errorf("%w: conexión rechazada", domain.ErrUnavailable)
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if !u.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return u, nil
}

func activeUser(role string) *entity.User {
	return &entity.User{
		ID:             testUserID,
		OrganizationID: testOrgID,
		Username:       "operario1",
		Role:           role,
		IsActive:       true,
	}
}

func newTestManager(t *testing.T) *token.Manager {
	t.Helper()
	priv, pub, err := token.GenerateKeyPair()
	require.NoError(t, err)
	m, err := token.NewManager(priv, pub, testIssuer, 24*time.Hour, 30*24*time.Hour)
	require.NoError(t, err)
	return m
}

// buildTestApp construye una aplicación Fiber mínima con la puerta de sesión
// y un handler dummy que devuelve 200 si pasa la allow-list.
func buildTestApp(tokens *token.Manager, checker *fakeActiveChecker, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	gate := apphttp.NewSessionGate(tokens, checker, false)
	app.Get("/protected", gate.Require(allowedRoles...), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":              true,
			"role":            apphttp.GetRole(c),
			"user_id":         apphttp.GetUserID(c),
			"organization_id": apphttp.GetActor(c).OrganizationID,
		})
	})
	return app
}

// doRequest lanza GET /protected con el token como cookie de sesión.
func doRequest(t *testing.T, app *fiber.App, sessionToken string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: apphttp.SessionCookieName, Value: sessionToken})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Allow-list de roles
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: rol permitido → HTTP 200 con el contexto verificado en locals.
func TestSessionGate_AdminAccedeRutaAdmin(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleAdmin, body["role"])
	assert.Equal(t, float64(testUserID), body["user_id"])
	assert.Equal(t, float64(testOrgID), body["organization_id"],
		"el tenant debe salir del contexto verificado")
}

// Caso 1b: uno de varios roles permitidos → HTTP 200.
func TestSessionGate_FloorStaffAccedeRutaMultiRol(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleFloorStaff)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin, entity.RoleFloorStaff)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleFloorStaff, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: rol fuera de la allow-list → HTTP 403 (nunca 401: la sesión es válida).
func TestSessionGate_FloorStaffBloqueadoEnRutaAdmin(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleFloorStaff)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin, entity.RoleSuperAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleFloorStaff, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"floor_staff no debe poder acceder a ruta de administradores")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Caso 2b: sin roles declarados, cualquier cuenta activa pasa.
func TestSessionGate_SinAllowListCualquierRolActivo(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleFloorStaff)}}
	app := buildTestApp(tokens, checker)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleFloorStaff, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación: token ausente, inválido, expirado
// ──────────────────────────────────────────────────────────────────────────────

// Caso 3: sin cookie ni header → HTTP 401 UNAUTHENTICATED.
func TestSessionGate_SinToken_Retorna401(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "UNAUTHENTICATED")
}

// Caso 4: token malformado → HTTP 401.
func TestSessionGate_TokenInvalido_Retorna401(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	resp := doRequest(t, app, "token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token firmado con OTRO par de claves → HTTP 401.
func TestSessionGate_TokenDeOtraClave_Retorna401(t *testing.T) {
	tokens := newTestManager(t)
	otros := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := otros.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 6: token expirado → HTTP 401 y la cookie queda invalidada.
func TestSessionGate_TokenExpirado_Retorna401YLimpiaCookie(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}

	// Emitir con un reloj 25 horas en el pasado: la sesión de 24h ya venció.
	past := time.Now().Add(-25 * time.Hour)
	tok, err := tokens.WithClock(func() time.Time { return past }).
		Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	app := buildTestApp(tokens, checker, entity.RoleAdmin)
	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assertCookieCleared(t, resp)
}

// El header Authorization: Bearer sirve como fallback para clientes sin cookies.
func TestSessionGate_BearerHeaderComoFallback(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleAdmin)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Chequeo vivo de cuenta: desactivación y base caída
// ──────────────────────────────────────────────────────────────────────────────

// Un token válido muere cuando la cuenta se desactiva: 401 + cookie limpiada.
func TestSessionGate_CuentaDesactivada_Retorna401YLimpiaCookie(t *testing.T) {
	tokens := newTestManager(t)
	inactive := activeUser(entity.RoleAdmin)
	inactive.IsActive = false
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: inactive}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ACCOUNT_INACTIVE")
	assertCookieCleared(t, resp)
}

// Cuenta eliminada de la base → mismo tratamiento que inactiva.
func TestSessionGate_CuentaEliminada_Retorna401(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Base caída → HTTP 503, NUNCA 401: la sesión no se invalida por un fallo
// de infraestructura y la cookie se conserva.
func TestSessionGate_BaseCaida_Retorna503SinTocarCookie(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{dbDown: true}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"un fallo de la base debe ser 503, no 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "AUTH_CHECK_FAILED")
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookieName {
			t.Fatalf("la cookie de sesión no debe tocarse ante un 503")
		}
	}
}

// El rol vivo de la base manda sobre el rol del token.
func TestSessionGate_RolVivoMandaSobreElDelToken(t *testing.T) {
	tokens := newTestManager(t)
	// El token dice admin, pero la cuenta fue degradada a floor_staff.
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleFloorStaff)}}
	app := buildTestApp(tokens, checker, entity.RoleAdmin)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleAdmin, testOrgID, false)
	require.NoError(t, err)

	resp := doRequest(t, app, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"el rol degradado en la base debe bloquear aunque el token diga admin")
}

// assertCookieCleared verifica que la respuesta invalide la cookie de sesión.
func assertCookieCleared(t *testing.T, resp *http.Response) {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookieName {
			assert.Empty(t, c.Value, "la cookie debe quedar vacía")
			assert.True(t, c.MaxAge < 0 || !c.Expires.After(time.Now()),
				"la cookie debe quedar expirada")
			assert.True(t, c.HttpOnly, "la cookie debe seguir siendo httpOnly")
			return
		}
	}
	t.Fatalf("se esperaba un Set-Cookie que limpie la sesión")
}
