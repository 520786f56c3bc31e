package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/pkg/token"
)

// SessionCookieName cookie httpOnly donde viaja el token de sesión.
const SessionCookieName = "token"

// Locals keys en Fiber (después de la puerta).
const (
	LocalUserID         = "user_id"
	LocalUsername       = "username"
	LocalRole           = "role"
	LocalOrganizationID = "organization_id"
)

// ActiveChecker consulta viva del estado de la cuenta, una por request.
type ActiveChecker interface {
	CheckActive(ctx context.Context, userID int64) (*entity.User, error)
}

// SessionGate valida la sesión y autoriza por rol. Las claves de verificación
// se inyectan una vez al construir la puerta; no hay estado global.
type SessionGate struct {
	tokens        *token.Manager
	users         ActiveChecker
	secureCookies bool
}

// NewSessionGate construye la puerta. secureCookies activa el flag Secure de
// la cookie (true fuera de development).
func NewSessionGate(tokens *token.Manager, users ActiveChecker, secureCookies bool) *SessionGate {
	return &SessionGate{tokens: tokens, users: users, secureCookies: secureCookies}
}

// Require es el único middleware de autorización: valida el token (cookie o
// Bearer), exige cuenta activa contra la base y aplica la allow-list de roles.
// Sin roles: cualquier usuario autenticado y activo pasa.
//
// Taxonomía de salidas:
//   - 401 UNAUTHENTICATED   token ausente, inválido o expirado
//   - 401 ACCOUNT_INACTIVE  cuenta desactivada o eliminada (limpia la cookie)
//   - 403 FORBIDDEN         cuenta válida pero rol fuera de la allow-list
//   - 503 AUTH_CHECK_FAILED la base no respondió; la sesión NO se invalida
func (g *SessionGate) Require(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return unauthenticated(c, "token de sesión requerido")
		}

		claims, err := g.tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				g.clearCookie(c)
			}
			return unauthenticated(c, "token inválido o expirado")
		}

		// Chequeo vivo: un token válido muere cuando la cuenta se desactiva.
		user, err := g.users.CheckActive(c.UserContext(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInactiveUser):
				g.clearCookie(c)
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code: "ACCOUNT_INACTIVE", Message: "la cuenta fue desactivada",
				})
			default:
				// Fallo de infraestructura: nunca se confunde con credenciales malas.
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "AUTH_CHECK_FAILED", Message: "no se pudo verificar la sesión, intente de nuevo",
				})
			}
		}

		// El rol vivo manda sobre el del token (pudo cambiar tras emitirlo).
		if len(roles) > 0 && !contains(roles, user.Role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "rol sin permiso para esta operación",
			})
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUsername, user.Username)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalOrganizationID, user.OrganizationID)
		return c.Next()
	}
}

// SetSessionCookie escribe la cookie de sesión (httpOnly, SameSite=Strict).
func (g *SessionGate) SetSessionCookie(c *fiber.Ctx, tokenString string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   g.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie invalida la cookie de sesión en el navegador.
func (g *SessionGate) ClearSessionCookie(c *fiber.Ctx) {
	g.clearCookie(c)
}

func (g *SessionGate) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   g.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// TokenTTL expone la vigencia configurada (para la cookie de login).
func (g *SessionGate) TokenTTL(rememberMe bool) time.Duration {
	return g.tokens.TTL(rememberMe)
}

// extractToken lee la cookie primero; Authorization: Bearer como fallback
// para clientes no-navegador.
func extractToken(c *fiber.Ctx) string {
	if v := c.Cookies(SessionCookieName); v != "" {
		return v
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthenticated(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code: "UNAUTHENTICATED", Message: msg,
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GetActor arma el actor verificado del request (después de la puerta).
// El tenant sale SIEMPRE de aquí, nunca del body ni de la query.
func GetActor(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{
		UserID:         getInt64Local(c, LocalUserID),
		OrganizationID: getInt64Local(c, LocalOrganizationID),
		Role:           GetRole(c),
	}
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) int64 {
	return getInt64Local(c, LocalUserID)
}

// GetRole devuelve el rol vivo del contexto.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getInt64Local(c *fiber.Ctx, key string) int64 {
	v := c.Locals(key)
	if v == nil {
		return 0
	}
	n, _ := v.(int64)
	return n
}
