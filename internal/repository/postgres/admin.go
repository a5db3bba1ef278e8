package postgres

import (
	"context"
	"database/sql"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// AdminRepository is a PostgreSQL implementation of repository.AdminRepository.
type AdminRepository struct {
	q Querier
}

// NewAdminRepository creates a new PostgreSQL admin repository.
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{q: db}
}

// LogAction records an administrative action.
func (r *AdminRepository) LogAction(ctx context.Context, entry *domain.AdminLog) error {
	query := `INSERT INTO admin_logs (id, admin_user_id, action, details, created_at) VALUES ($1, $2, $3, $4::jsonb, $5)`

	var details sql.NullString
	if len(entry.Details) > 0 {
		details = sql.NullString{String: string(entry.Details), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query, entry.ID, entry.AdminUserID, entry.Action, details, entry.CreatedAt)
	return err
}

// ListLogs retrieves the most recent actions, newest first.
func (r *AdminRepository) ListLogs(ctx context.Context, limit int) ([]*domain.AdminLog, error) {
	query := `
		SELECT l.id, l.admin_user_id, COALESCE(u.email, ''), l.action, l.details, l.created_at
		FROM admin_logs l
		LEFT JOIN users u ON u.id = l.admin_user_id
		ORDER BY l.created_at DESC
		LIMIT $1
	`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.AdminLog{}
	for rows.Next() {
		var (
			l       domain.AdminLog
			details []byte
		)
		if err := rows.Scan(&l.ID, &l.AdminUserID, &l.AdminEmail, &l.Action, &details, &l.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			l.Details = details
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// DashboardStats aggregates user, driver and booking counts.
func (r *AdminRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		Users:    []domain.RoleCount{},
		Drivers:  []domain.DriverStatusCount{},
		Bookings: []domain.BookingStatusCount{},
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT role, COUNT(*),
		       COUNT(*) FILTER (WHERE is_verified),
		       COUNT(*) FILTER (WHERE is_active)
		FROM users GROUP BY role ORDER BY role
	`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var rc domain.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count, &rc.Verified, &rc.Active); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Users = append(stats.Users, rc)
		stats.Totals.Users += rc.Count
		if rc.Role == domain.RoleTourist {
			stats.Totals.Tourists = rc.Count
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM drivers GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var dc domain.DriverStatusCount
		if err := rows.Scan(&dc.Status, &dc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Drivers = append(stats.Drivers, dc)
		stats.Totals.Drivers += dc.Count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_cost), 0)
		FROM bookings GROUP BY status ORDER BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var bc domain.BookingStatusCount
		if err := rows.Scan(&bc.Status, &bc.Count, &bc.Revenue); err != nil {
			return nil, err
		}
		stats.Bookings = append(stats.Bookings, bc)
		stats.Totals.Bookings += bc.Count
		if bc.Status == domain.BookingStatusCompleted {
			stats.Totals.Revenue = bc.Revenue
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

var _ repository.AdminRepository = (*AdminRepository)(nil)
