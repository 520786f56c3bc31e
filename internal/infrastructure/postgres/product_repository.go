package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, organization_id, sku, name, description, unit, unit_price, unit_cost, media_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	db Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(db Querier) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create persiste el producto y sus atributos.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (organization_id, sku, name, description, unit, unit_price, unit_cost, media_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		product.OrganizationID, product.SKU, product.Name, product.Description, product.Unit,
		product.UnitPrice, product.UnitCost, product.MediaID, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if len(product.Attributes) > 0 {
		for i := range product.Attributes {
			product.Attributes[i].ProductID = product.ID
		}
		return r.insertAttributes(ctx, product.ID, product.Attributes)
	}
	return nil
}

// GetByID obtiene un producto del tenant con sus atributos. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, organizationID, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND id = $2`
	product, err := r.scanOne(r.db.QueryRow(ctx, query, organizationID, id), "get product by id")
	if err != nil || product == nil {
		return product, err
	}
	product.Attributes, err = r.loadAttributes(ctx, product.ID)
	return product, err
}

// GetByOrganizationAndSKU obtiene un producto por SKU dentro del tenant.
func (r *ProductRepo) GetByOrganizationAndSKU(ctx context.Context, organizationID int64, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE organization_id = $1 AND sku = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, organizationID, sku), "get product by sku")
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Description, &p.Unit,
		&p.UnitPrice, &p.UnitCost, &p.MediaID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// Update actualiza los campos editables del producto (los atributos van por
// ReplaceAttributes).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, description = $4, unit = $5, unit_price = $6, unit_cost = $7, media_id = $8, updated_at = $9
		WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query,
		product.OrganizationID, product.ID, product.Name, product.Description, product.Unit,
		product.UnitPrice, product.UnitCost, product.MediaID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ReplaceAttributes reemplaza el conjunto completo de atributos del producto.
func (r *ProductRepo) ReplaceAttributes(ctx context.Context, productID int64, attrs []entity.ProductAttribute) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM product_attributes WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete attributes: %w", err)
	}
	return r.insertAttributes(ctx, productID, attrs)
}

func (r *ProductRepo) insertAttributes(ctx context.Context, productID int64, attrs []entity.ProductAttribute) error {
	for i := range attrs {
		err := r.db.QueryRow(ctx,
			`INSERT INTO product_attributes (product_id, name, value) VALUES ($1, $2, $3) RETURNING id`,
			productID, attrs[i].Name, attrs[i].Value,
		).Scan(&attrs[i].ID)
		if err != nil {
			return fmt.Errorf("insert attribute: %w", err)
		}
	}
	return nil
}

func (r *ProductRepo) loadAttributes(ctx context.Context, productID int64) ([]entity.ProductAttribute, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, name, value FROM product_attributes WHERE product_id = $1 ORDER BY id`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	defer rows.Close()
	var attrs []entity.ProductAttribute
	for rows.Next() {
		var a entity.ProductAttribute
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Name, &a.Value); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

// List lista productos del tenant con búsqueda opcional por nombre o SKU.
func (r *ProductRepo) List(ctx context.Context, organizationID int64, search string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE organization_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, organizationID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.Description, &p.Unit,
			&p.UnitPrice, &p.UnitCost, &p.MediaID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Count cuenta productos del tenant con el mismo criterio de búsqueda que List.
func (r *ProductRepo) Count(ctx context.Context, organizationID int64, search string) (int, error) {
	query := `
		SELECT COUNT(*) FROM products
		WHERE organization_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')`
	var total int
	if err := r.db.QueryRow(ctx, query, organizationID, search).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// Delete elimina un producto. Con registros de producción -> ErrProductInUse.
func (r *ProductRepo) Delete(ctx context.Context, organizationID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ExistingSKUs devuelve cuáles de los SKUs dados ya existen en la organización.
func (r *ProductRepo) ExistingSKUs(ctx context.Context, organizationID int64, skus []string) (map[string]bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sku FROM products WHERE organization_id = $1 AND sku = ANY($2)`,
		organizationID, skus)
	if err != nil {
		return nil, fmt.Errorf("existing skus: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		out[sku] = true
	}
	return out, rows.Err()
}
