package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/category"
)

const (
	listCategoriesSQL = `SELECT id, name, parent_id, created_at
		FROM categories ORDER BY name`

	getCategorySQL = `SELECT id, name, parent_id, created_at
		FROM categories WHERE id = $1`

	insertCategorySQL = `INSERT INTO categories (id, name, parent_id)
		VALUES ($1, $2, $3)`

	updateCategorySQL = `UPDATE categories SET name = $2, parent_id = $3
		WHERE id = $1`

	// ON DELETE SET NULL on the self FK re-roots children automatically.
	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns the full flat category collection.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, scanCategory)
}

// GetByID returns a single category.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting category %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCategory)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %q: %w", id, err)
	}
	return &c, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	_, err := r.pool.Exec(ctx, insertCategorySQL, c.ID, c.Name, c.ParentID)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

// Update renames or re-parents a category.
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	ct, err := r.pool.Exec(ctx, updateCategorySQL, c.ID, c.Name, c.ParentID)
	if err != nil {
		return fmt.Errorf("updating category %q: %w", c.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

// Delete removes a category; its children become roots.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.CollectableRow) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt)
	return c, err
}
