package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tasklists/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxAuditRows = 500

// AuditRepository stores the append-only audit trail in audit_logs.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts entry and fills in its id and timestamp.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, entry.UserID, entry.Action, entry.Category, detailsJSON, entry.IP, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// Find returns the newest entries matching q.
func (r *AuditRepository) Find(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		args = append(args, q.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	limit := q.Limit
	if limit <= 0 || limit > maxAuditRows {
		limit = maxAuditRows
	}
	args = append(args, limit)

	sql := `SELECT id, user_id, action, category, details, ip, user_agent, created_at FROM audit_logs`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanAuditLog)
}

func scanAuditLog(row pgx.CollectableRow) (*domain.AuditLog, error) {
	var (
		entry       domain.AuditLog
		detailsJSON []byte
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Category, &detailsJSON,
		&entry.IP, &entry.UserAgent, &entry.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil || entry.Details == nil {
		entry.Details = map[string]interface{}{}
	}
	return &entry, nil
}
