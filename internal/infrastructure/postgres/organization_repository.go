package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	db Querier
}

// NewOrganizationRepository construye el adaptador.
func NewOrganizationRepository(db Querier) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// Create persiste la organización y asigna su ID.
func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (name, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, org.Name, org.Language, org.CreatedAt, org.UpdatedAt).Scan(&org.ID)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID. (nil, nil) si no existe.
func (r *OrganizationRepo) GetByID(ctx context.Context, id int64) (*entity.Organization, error) {
	query := `SELECT id, name, language, created_at, updated_at FROM organizations WHERE id = $1`
	var o entity.Organization
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Language, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization by id: %w", err)
	}
	return &o, nil
}
