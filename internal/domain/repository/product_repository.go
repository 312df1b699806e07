package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"credpal/internal/common"
	"credpal/internal/domain/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int, category, search string) ([]model.Product, int, error)
}

type pgProductRepository struct {
	db *sql.DB
}

func NewPgProductRepository(db *sql.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (id, name, slug, description, price, quantity, category, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.Price, p.Quantity, p.Category, p.CreatedByID)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT id, name, slug, description, price, quantity, category, created_by, created_at, updated_at
	          FROM products WHERE id = $1`
	product := &model.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description, &product.Price,
		&product.Quantity, &product.Category, &product.CreatedByID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProductRepository.FindByID: %w", err)
	}
	return product, nil
}

func (r *pgProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET
	            name = $1, slug = $2, description = $3, price = $4, quantity = $5, category = $6,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.Quantity, p.Category, p.ID)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProductRepository.Update: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProductRepository.Delete: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProductRepository) List(ctx context.Context, limit, offset int, category, search string) ([]model.Product, int, error) {
	var baseQuery strings.Builder
	baseQuery.WriteString(`
        SELECT p.id, p.name, p.slug, p.description, p.price, p.quantity, p.category,
               p.created_by, p.created_at, p.updated_at
        FROM products p`)

	var countQueryBuilder strings.Builder
	countQueryBuilder.WriteString(`SELECT COUNT(*) FROM products p`)

	var conditions []string
	var args []interface{}
	argID := 1

	if category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argID))
		args = append(args, category)
		argID++
	}

	if search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + search + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	if len(conditions) > 0 {
		whereClause := " WHERE " + strings.Join(conditions, " AND ")
		baseQuery.WriteString(whereClause)
		countQueryBuilder.WriteString(whereClause)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQueryBuilder.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List count: %w", err)
	}

	baseQuery.WriteString(fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List query: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Quantity, &p.Category,
			&p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("pgProductRepository.List scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List rows: %w", err)
	}
	return products, total, nil
}
