package service

import (
	"context"
	"fmt"
	"time"

	"tasklists/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdminService provides operator statistics over the PostgreSQL store
type AdminService struct {
	db rowQuerier
}

// NewAdminService creates a new admin service
func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{db: db}
}

// Stats represents platform statistics
type Stats struct {
	TotalAccounts    int64 `json:"total_accounts"`
	SignupsToday     int64 `json:"signups_today"`
	ActiveUsersToday int64 `json:"active_users_today"` // signed in today
	ActiveUsersWeek  int64 `json:"active_users_week"`
	TotalLists       int64 `json:"total_lists"`
	OpenTasks        int64 `json:"open_tasks"`
	CompletedTasks   int64 `json:"completed_tasks"`
}

// GetStats returns platform statistics
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	weekAgo := today.Add(-7 * 24 * time.Hour)

	queries := []struct {
		name string
		sql  string
		args []any
		dest []any
	}{
		{"accounts", `SELECT COUNT(*) FROM accounts`, nil, []any{&stats.TotalAccounts}},
		{"signups today", `SELECT COUNT(*) FROM accounts WHERE created_at >= $1`,
			[]any{today}, []any{&stats.SignupsToday}},
		{"active today", `SELECT COUNT(DISTINCT user_id) FROM audit_logs WHERE action = $1 AND created_at >= $2`,
			[]any{domain.AuditActionLogin, today}, []any{&stats.ActiveUsersToday}},
		{"active week", `SELECT COUNT(DISTINCT user_id) FROM audit_logs WHERE action = $1 AND created_at >= $2`,
			[]any{domain.AuditActionLogin, weekAgo}, []any{&stats.ActiveUsersWeek}},
		// counts live on the list rows, written with the tasks
		{"lists", `SELECT COUNT(*), COALESCE(SUM(task_count), 0), COALESCE(SUM(completed_count), 0) FROM task_lists`,
			nil, []any{&stats.TotalLists, &stats.OpenTasks, &stats.CompletedTasks}},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(ctx, q.sql, q.args...).Scan(q.dest...); err != nil {
			return nil, fmt.Errorf("stats %s: %w", q.name, err)
		}
	}

	return stats, nil
}
