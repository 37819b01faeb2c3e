package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communityevents/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, external_id, email, first_name, last_name, photo, organization, role, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName,
		&u.Photo, &u.Organization, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetOrCreate is a single atomic find-or-create keyed on the external id: the
// no-op DO UPDATE lets RETURNING yield the existing row without touching it.
// Concurrent first-time resolution of the same identity yields one record.
func (r *userRepository) GetOrCreate(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (external_id, email, first_name, last_name, photo, organization, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
		RETURNING ` + userColumns
	stored, err := scanUser(r.DB.QueryRowContext(ctx, query,
		u.ExternalID, u.Email, u.FirstName, u.LastName, u.Photo, u.Organization, u.Role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return stored, nil
}

// Upsert overwrites the profile attributes mirrored from the identity
// provider. Organization and role are local and survive the sync.
func (r *userRepository) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (external_id, email, first_name, last_name, photo, organization, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE
			SET email = EXCLUDED.email,
			    first_name = EXCLUDED.first_name,
			    last_name = EXCLUDED.last_name,
			    photo = EXCLUDED.photo,
			    updated_at = NOW()
		RETURNING ` + userColumns
	stored, err := scanUser(r.DB.QueryRowContext(ctx, query,
		u.ExternalID, u.Email, u.FirstName, u.LastName, u.Photo, u.Organization, u.Role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return stored, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
