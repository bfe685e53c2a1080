package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklists/internal/domain"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	lastQ   domain.AuditQuery
}

func (r *fakeAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) Find(_ context.Context, q domain.AuditQuery) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQ = q
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if (q.UserID == "" || e.UserID == q.UserID) && (q.Category == "" || e.Category == q.Category) {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestAuditService_RecordsAndFilters(t *testing.T) {
	repo := &fakeAuditRepo{}
	audit := NewAuditService(repo)
	ctx := context.Background()

	audit.LogLogin(ctx, "u1", "10.0.0.1", "ua")
	audit.LogList(ctx, "u1", domain.AuditActionListCreate, "l1", "Groceries")
	audit.LogList(ctx, "u2", domain.AuditActionListDelete, "l2", "")

	require.Len(t, repo.entries, 3)
	assert.Equal(t, "10.0.0.1", repo.entries[0].IP)
	assert.Equal(t, map[string]interface{}{"list_id": "l1", "title": "Groceries"}, repo.entries[1].Details)
	assert.NotContains(t, repo.entries[2].Details, "title")

	mine, err := audit.GetUserAuditLogs(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, 10, repo.lastQ.Limit)

	lists, err := audit.GetRecentLogs(ctx, domain.AuditCategoryList, 5)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
	assert.Equal(t, domain.AuditCategoryList, repo.lastQ.Category)
}

func TestAuditService_WithoutRepository(t *testing.T) {
	ctx := context.Background()

	var nilService *AuditService
	assert.NotPanics(t, func() { nilService.LogLogout(ctx, "u1", "", "") })

	logOnly := NewAuditService(nil)
	assert.NotPanics(t, func() { logOnly.LogSignup(ctx, "u1", "", "") })
	logs, err := logOnly.GetRecentLogs(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
