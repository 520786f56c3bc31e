package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

type fakeUserAdminRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserAdminRepo() *fakeUserAdminRepo {
	return &fakeUserAdminRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (r *fakeUserAdminRepo) Create(_ context.Context, u *entity.User) error {
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserAdminRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserAdminRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserAdminRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserAdminRepo) ListByOrganization(_ context.Context, orgID int64, limit, offset int) ([]*entity.User, error) {
	var all []*entity.User
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok && u.OrganizationID == orgID {
			all = append(all, u)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeUserAdminRepo) CountByOrganization(_ context.Context, orgID int64) (int, error) {
	total := 0
	for _, u := range r.users {
		if u.OrganizationID == orgID {
			total++
		}
	}
	return total, nil
}

func seedStaff(t *testing.T, repo *fakeUserAdminRepo, orgID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), &entity.User{
			OrganizationID: orgID,
			Username:       fmt.Sprintf("operario%d", i),
			Role:           entity.RoleFloorStaff,
			IsActive:       true,
		}))
	}
}

// El total de la página refleja todos los usuarios del tenant, no solo los
// de la página devuelta.
func TestUserList_TotalCuentaTodoElTenant(t *testing.T) {
	repo := newFakeUserAdminRepo()
	uc := usecase.NewUserUseCase(repo)
	seedStaff(t, repo, adminActor.OrganizationID, 5)
	seedStaff(t, repo, 99, 2) // otro tenant, no debe contarse

	out, err := uc.List(context.Background(), adminActor, dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)

	assert.Len(t, out.Items, 2)
	assert.Equal(t, 5, out.Page.Total)
}

// admin solo gestiona floor_staff: no puede crear otro admin.
func TestUserCreate_AdminNoCreaAdmin(t *testing.T) {
	repo := newFakeUserAdminRepo()
	uc := usecase.NewUserUseCase(repo)

	_, err := uc.Create(context.Background(), adminActor, dto.CreateUserRequest{
		Username: "jefe2", Password: "secreto123", Name: "Jefe", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Nadie se desactiva a sí mismo.
func TestUserSetStatus_AutoDesactivacionProhibida(t *testing.T) {
	repo := newFakeUserAdminRepo()
	uc := usecase.NewUserUseCase(repo)

	_, err := uc.SetStatus(context.Background(), adminActor, adminActor.UserID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
