package repository

import (
	"context"
	"encoding/json"
	"errors"

	"tasklists/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListRepository stores each task list as one row with its tasks in a JSONB
// column, so a list and its counters always change together.
type ListRepository struct {
	db *pgxpool.Pool
}

func NewListRepository(db *pgxpool.Pool) *ListRepository {
	return &ListRepository{db: db}
}

const listColumns = `id, owner_id, title, emoji, task_count, completed_count, tasks, created_at`

func (r *ListRepository) Create(ctx context.Context, l *domain.TaskList) error {
	return r.create(ctx, r.db, l)
}

func (r *ListRepository) create(ctx context.Context, q dbtx, l *domain.TaskList) error {
	tasksJSON, err := marshalTasks(l.Tasks)
	if err != nil {
		return err
	}
	return q.QueryRow(ctx,
		`INSERT INTO task_lists (id, owner_id, title, emoji, task_count, completed_count, tasks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		l.ID, l.OwnerID, l.Title, l.Emoji, l.TaskCount, l.CompletedCount, tasksJSON,
	).Scan(&l.CreatedAt)
}

func (r *ListRepository) GetByID(ctx context.Context, id string) (*domain.TaskList, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listColumns+` FROM task_lists WHERE id = $1`, id)
	return scanList(row)
}

// getForUpdate locks the row until tx ends.
func (r *ListRepository) getForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.TaskList, error) {
	row := tx.QueryRow(ctx, `SELECT `+listColumns+` FROM task_lists WHERE id = $1 FOR UPDATE`, id)
	return scanList(row)
}

func (r *ListRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.TaskList, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+listColumns+` FROM task_lists WHERE owner_id = $1 ORDER BY seq`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.TaskList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *ListRepository) save(ctx context.Context, q dbtx, l *domain.TaskList) error {
	tasksJSON, err := marshalTasks(l.Tasks)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx,
		`UPDATE task_lists
		 SET title = $2, emoji = $3, task_count = $4, completed_count = $5, tasks = $6
		 WHERE id = $1`,
		l.ID, l.Title, l.Emoji, l.TaskCount, l.CompletedCount, tasksJSON,
	)
	return err
}

func (r *ListRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM task_lists WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalTasks(tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return json.Marshal(tasks)
}

func scanList(row pgx.Row) (*domain.TaskList, error) {
	var l domain.TaskList
	var tasksJSON []byte
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Emoji, &l.TaskCount, &l.CompletedCount, &tasksJSON, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tasksJSON, &l.Tasks); err != nil {
		return nil, err
	}
	if l.Tasks == nil {
		l.Tasks = []domain.Task{}
	}
	return &l, nil
}
