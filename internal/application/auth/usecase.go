// Package auth casos de uso de autenticación: registro de organización,
// login y el chequeo vivo de activación que la puerta ejecuta por request.
package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
	"github.com/flowdash/flowdash-api/pkg/token"
)

// TxRunner ejecuta el alta organización + primer usuario en una transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orgRepo repository.OrganizationRepository,
		userRepo repository.UserRepository,
	) error) error
}

// AuthUseCase registro, login y verificación de cuenta activa.
type AuthUseCase struct {
	userRepo repository.UserRepository
	txRunner TxRunner
	tokens   *token.Manager
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, txRunner TxRunner, tokens *token.Manager) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, txRunner: txRunner, tokens: tokens}
}

// Register crea la organización y su primer usuario (super_admin) en UNA
// transacción, y emite el token de sesión. Username duplicado -> ErrUsernameAlreadyExists.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.SessionResponse, error) {
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("verificar username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	lang := in.Language
	if lang == "" {
		lang = "en"
	}

	now := time.Now()
	var user *entity.User
	err = uc.txRunner.Run(ctx, func(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) error {
		org := &entity.Organization{
			Name:      in.OrganizationName,
			Language:  lang,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := orgRepo.Create(ctx, org); err != nil {
			return err
		}
		user = &entity.User{
			OrganizationID: org.ID,
			Username:       in.Username,
			PasswordHash:   string(hash),
			Name:           in.Name,
			Role:           entity.RoleSuperAdmin,
			Language:       lang,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	tok, err := uc.tokens.Issue(user.ID, user.Username, user.Role, user.OrganizationID, false)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{Token: tok, User: *ToUserResponse(user)}, nil
}

// Login verifica username/password, exige cuenta activa y emite el token.
// rememberMe extiende la vigencia según configuración.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	tok, err := uc.tokens.Issue(user.ID, user.Username, user.Role, user.OrganizationID, in.RememberMe)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{Token: tok, User: *ToUserResponse(user)}, nil
}

// CheckActive es la consulta única por request de la puerta de autorización:
// busca el usuario vivo y exige is_active. Distingue tres salidas:
//   - ErrUserNotFound / ErrInactiveUser -> la sesión debe morir (401 + limpiar cookie)
//   - ErrUnavailable                    -> fallo de infraestructura (503), NUNCA 401
//   - nil                               -> usuario activo, contexto utilizable
func (uc *AuthUseCase) CheckActive(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

// ToUserResponse mapea la entidad al DTO público (sin password hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Username:       u.Username,
		Name:           u.Name,
		Role:           u.Role,
		Language:       u.Language,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
