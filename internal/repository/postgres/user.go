package postgres

import (
	"context"
	"database/sql"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, email, role, is_verified, is_active, created_at FROM users WHERE id = $1`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Role,
		&user.IsVerified,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// List retrieves every user with profile names, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.email, u.role, u.is_verified, u.is_active, u.created_at,
		       COALESCE(t.first_name, d.first_name, ''),
		       COALESCE(t.last_name, d.last_name, ''),
		       COALESCE(t.phone, d.phone, '')
		FROM users u
		LEFT JOIN tourists t ON t.user_id = u.id
		LEFT JOIN drivers d ON d.user_id = u.id
		ORDER BY u.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.UserSummary{}
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Role, &u.IsVerified, &u.IsActive, &u.CreatedAt,
			&u.FirstName, &u.LastName, &u.Phone,
		); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// ToggleActive flips the active flag of a user and returns the new value.
func (r *UserRepository) ToggleActive(ctx context.Context, id string) (bool, error) {
	query := `UPDATE users SET is_active = NOT is_active WHERE id = $1 RETURNING is_active`

	var active bool
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&active); err != nil {
		return false, mapError(err)
	}
	return active, nil
}

// TouristRepository is a PostgreSQL implementation of repository.TouristRepository.
type TouristRepository struct {
	q Querier
}

// NewTouristRepository creates a new PostgreSQL tourist repository.
func NewTouristRepository(db *sql.DB) *TouristRepository {
	return &TouristRepository{q: db}
}

// GetByUserID retrieves the tourist profile owned by a user.
func (r *TouristRepository) GetByUserID(ctx context.Context, userID string) (*domain.Tourist, error) {
	query := `
		SELECT id, user_id, first_name, last_name, COALESCE(phone, ''), COALESCE(country, '')
		FROM tourists WHERE user_id = $1
	`

	var t domain.Tourist
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.FirstName,
		&t.LastName,
		&t.Phone,
		&t.Country,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.TouristRepository = (*TouristRepository)(nil)
)
