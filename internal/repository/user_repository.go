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

// ErrDuplicateExternalID is returned when a user create collides with an
// existing external identity.
var ErrDuplicateExternalID = errors.New("user with this external ID already exists")

const userColumns = `id, external_id, display_name, roles, metadata, password_hash, created_at, updated_at`

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.ExternalID, &u.DisplayName, &u.Roles, &u.Metadata, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return u, nil
}

// List retrieves all users.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY display_name ASC`)
}

// ListAdmins retrieves all users carrying the admin role.
func (r *UserRepository) ListAdmins(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE $1 = ANY(roles) ORDER BY display_name ASC`, model.RoleAdmin)
}

func (r *UserRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.ExternalID, &u.DisplayName, &u.Roles, &u.Metadata, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if u.Roles == nil {
			u.Roles = []string{}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID retrieves a user by ID. Returns (nil, nil) if absent.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetByExternalID retrieves a user by their unique external identity.
// Returns (nil, nil) if absent.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if u.Roles == nil {
		u.Roles = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (external_id, display_name, roles, metadata, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.ExternalID, u.DisplayName, u.Roles, u.Metadata, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateExternalID
		}
		return err
	}
	return nil
}

// Update replaces a user's display name, roles, and metadata.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET display_name = $1, roles = $2, metadata = $3, updated_at = NOW() WHERE id = $4`,
		u.DisplayName, u.Roles, u.Metadata, u.ID)
	return err
}

// UpdateRoles replaces a user's role set.
func (r *UserRepository) UpdateRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $1, updated_at = NOW() WHERE id = $2`, roles, id)
	return err
}

// UpdateMetadata replaces a user's metadata bag.
func (r *UserRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata []byte) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET metadata = $1, updated_at = NOW() WHERE id = $2`, metadata, id)
	return err
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
