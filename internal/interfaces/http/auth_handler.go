package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/auth"
	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/pkg/validate"
)

// AuthHandler registro, login, logout y perfil de sesión.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	gate *SessionGate
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, gate *SessionGate) *AuthHandler {
	return &AuthHandler{uc: uc, gate: gate}
}

// Register godoc
// @Summary      Registrar organización y primer usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "organization_name, name, username, password"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, validate.Messages(err))
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return domainError(c, err)
	}
	h.gate.SetSessionCookie(c, out.Token, h.gate.TokenTTL(false))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password, remember_me"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, validate.Messages(err))
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return domainError(c, err)
	}
	h.gate.SetSessionCookie(c, out.Token, h.gate.TokenTTL(in.RememberMe))
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (limpia la cookie)
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.gate.ClearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.CheckActive(c.UserContext(), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(auth.ToUserResponse(user))
}
