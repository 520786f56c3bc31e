package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flowdash/flowdash-api/internal/application/auth"
	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// UserUseCase administración de usuarios de la organización.
//
// Jerarquía: super_admin gestiona cualquier rol; admin solo floor_staff.
// Nadie se desactiva a sí mismo. La desactivación surte efecto en el
// siguiente request del afectado vía el chequeo vivo de la puerta.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// canManage aplica la jerarquía de roles del actor sobre el rol objetivo.
func canManage(actorRole, targetRole string) bool {
	switch actorRole {
	case entity.RoleSuperAdmin:
		return true
	case entity.RoleAdmin:
		return targetRole == entity.RoleFloorStaff
	}
	return false
}

// Create alta de un usuario en la organización del actor.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if !canManage(actor.Role, in.Role) {
		return nil, domain.ErrForbidden
	}
	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
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
	user := &entity.User{
		OrganizationID: actor.OrganizationID,
		Username:       in.Username,
		PasswordHash:   string(hash),
		Name:           in.Name,
		Role:           in.Role,
		Language:       lang,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List usuarios de la organización, paginados.
func (uc *UserUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.ListByOrganization(ctx, actor.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update nombre, rol o idioma de un usuario gestionable por el actor.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.getManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		// El nuevo rol también debe estar dentro de lo que el actor gestiona
		if !canManage(actor.Role, *in.Role) {
			return nil, domain.ErrForbidden
		}
		user.Role = *in.Role
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Language != nil {
		user.Language = *in.Language
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// SetStatus activa o desactiva la cuenta. Auto-desactivación prohibida.
func (uc *UserUseCase) SetStatus(ctx context.Context, actor Actor, id int64, isActive bool) (*dto.UserResponse, error) {
	if id == actor.UserID && !isActive {
		return nil, domain.ErrConflict
	}
	user, err := uc.getManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = isActive
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// getManaged resuelve el usuario objetivo validando tenant y jerarquía.
func (uc *UserUseCase) getManaged(ctx context.Context, actor Actor, id int64) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != actor.OrganizationID {
		// Fuera del tenant se responde igual que inexistente
		return nil, domain.ErrUserNotFound
	}
	if !canManage(actor.Role, user.Role) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
