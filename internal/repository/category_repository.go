package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/medprep-backend/internal/model"
)

// ErrDuplicateSlug is returned when a category slug collides with an
// existing one. Slug matching is exact (case-sensitive).
var ErrDuplicateSlug = errors.New("category with this slug already exists")

const categoryColumns = `id, name, slug, description, color, icon_blob_id, created_at, updated_at`

// CategoryRepository handles category data access.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	c := &model.Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IconBlobID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all categories.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IconBlobID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListWithQuestionCounts retrieves all categories, each annotated with a live
// count of active questions referencing it. Counts are computed per call so
// they can never go stale.
func (r *CategoryRepository) ListWithQuestionCounts(ctx context.Context) ([]model.CategoryWithStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.slug, c.description, c.color, c.icon_blob_id, c.created_at, c.updated_at,
		        COUNT(q.id) FILTER (WHERE q.is_active) AS question_count
		 FROM categories c
		 LEFT JOIN question_categories qc ON qc.category_id = c.id
		 LEFT JOIN questions q ON q.id = qc.question_id
		 GROUP BY c.id
		 ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.CategoryWithStats
	for rows.Next() {
		var c model.CategoryWithStats
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IconBlobID,
			&c.CreatedAt, &c.UpdatedAt, &c.QuestionCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves a category by ID. Returns (nil, nil) if absent.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// GetBySlug retrieves a category by its unique slug. Returns (nil, nil) if absent.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// SlugExists reports whether the slug is already used by a category other
// than excludeID. Pass uuid.Nil to check against all categories.
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug, description, color, icon_blob_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Slug, c.Description, c.Color, c.IconBlobID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Update patches a category. Only non-nil fields are touched.
func (r *CategoryRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) error {
	b := newUpdateBuilder("categories", id)
	b.Set("name", req.Name)
	b.Set("slug", req.Slug)
	b.Set("description", req.Description)
	b.Set("color", req.Color)
	b.Set("icon_blob_id", req.IconBlobID)

	query, args, ok := b.Build()
	if !ok {
		return nil // Nothing to update.
	}

	_, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
	}
	return err
}

// IsReferenced reports whether any question still references the category.
func (r *CategoryRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM question_categories WHERE category_id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// Delete removes a category by ID.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}
