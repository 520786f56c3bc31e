package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
	apphttp "github.com/flowdash/flowdash-api/internal/interfaces/http"
	"github.com/flowdash/flowdash-api/pkg/token"
)

// buildRouterApp monta el router completo con la puerta real; los use cases
// quedan en nil porque estas pruebas solo ejercitan el middleware de las rutas.
func buildRouterApp(tokens *token.Manager, checker *fakeActiveChecker) *fiber.App {
	app := fiber.New()
	gate := apphttp.NewSessionGate(tokens, checker, false)
	apphttp.Router(app, apphttp.RouterDeps{Gate: gate})
	return app
}

// Logout exige sesión: sin credencial debe responder 401.
func TestRouter_LogoutSinSesion_Retorna401(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{}}
	app := buildRouterApp(tokens, checker)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"logout sin token debe rechazarse en la puerta")
}

// Con sesión válida el logout responde 204 y limpia la cookie.
func TestRouter_LogoutConSesion_Retorna204YLimpiaCookie(t *testing.T) {
	tokens := newTestManager(t)
	checker := &fakeActiveChecker{users: map[int64]*entity.User{testUserID: activeUser(entity.RoleFloorStaff)}}
	app := buildRouterApp(tokens, checker)

	tok, err := tokens.Issue(testUserID, "operario1", entity.RoleFloorStaff, testOrgID, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookieName, Value: tok})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assertCookieCleared(t, resp)
}
