package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

var (
	_ repository.MediaRepository     = (*MediaRepo)(nil)
	_ repository.ImportJobRepository = (*ImportJobRepo)(nil)
)

// MediaRepo implementación del puerto MediaRepository sobre PostgreSQL.
type MediaRepo struct {
	db Querier
}

// NewMediaRepository construye el adaptador.
func NewMediaRepository(db Querier) *MediaRepo {
	return &MediaRepo{db: db}
}

const mediaColumns = `id, organization_id, uploaded_by, object_key, file_name, content_type, size_bytes, width, height, created_at`

func (r *MediaRepo) Create(ctx context.Context, media *entity.Media) error {
	query := `
		INSERT INTO media (organization_id, uploaded_by, object_key, file_name, content_type, size_bytes, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		media.OrganizationID, media.UploadedBy, media.ObjectKey, media.FileName,
		media.ContentType, media.SizeBytes, media.Width, media.Height, media.CreatedAt,
	).Scan(&media.ID)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

func (r *MediaRepo) GetByID(ctx context.Context, organizationID, id int64) (*entity.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE organization_id = $1 AND id = $2`
	var m entity.Media
	err := r.db.QueryRow(ctx, query, organizationID, id).Scan(
		&m.ID, &m.OrganizationID, &m.UploadedBy, &m.ObjectKey, &m.FileName,
		&m.ContentType, &m.SizeBytes, &m.Width, &m.Height, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return &m, nil
}

func (r *MediaRepo) List(ctx context.Context, organizationID int64, limit, offset int) ([]*entity.Media, error) {
	query := `SELECT ` + mediaColumns + `
		FROM media WHERE organization_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()
	var list []*entity.Media
	for rows.Next() {
		var m entity.Media
		if err := rows.Scan(
			&m.ID, &m.OrganizationID, &m.UploadedBy, &m.ObjectKey, &m.FileName,
			&m.ContentType, &m.SizeBytes, &m.Width, &m.Height, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MediaRepo) Count(ctx context.Context, organizationID int64) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM media WHERE organization_id = $1`, organizationID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return total, nil
}

func (r *MediaRepo) Delete(ctx context.Context, organizationID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM media WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// ImportJobRepo implementación del puerto ImportJobRepository sobre PostgreSQL.
type ImportJobRepo struct {
	db Querier
}

// NewImportJobRepository construye el adaptador.
func NewImportJobRepository(db Querier) *ImportJobRepo {
	return &ImportJobRepo{db: db}
}

func (r *ImportJobRepo) Create(ctx context.Context, job *entity.ImportJob) error {
	query := `
		INSERT INTO import_jobs (id, organization_id, user_id, file_name, total_rows, imported_rows, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.OrganizationID, job.UserID, job.FileName,
		job.TotalRows, job.ImportedRows, job.Status, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepo) ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*entity.ImportJob, error) {
	query := `
		SELECT id, organization_id, user_id, file_name, total_rows, imported_rows, status, created_at
		FROM import_jobs WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ImportJob
	for rows.Next() {
		var j entity.ImportJob
		if err := rows.Scan(
			&j.ID, &j.OrganizationID, &j.UserID, &j.FileName,
			&j.TotalRows, &j.ImportedRows, &j.Status, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import job: %w", err)
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}

func (r *ImportJobRepo) CountByOrganization(ctx context.Context, organizationID int64) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM import_jobs WHERE organization_id = $1`, organizationID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count import jobs: %w", err)
	}
	return total, nil
}
