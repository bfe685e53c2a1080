package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countRow struct {
	n   int64
	err error
}

func (r countRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for _, d := range dest {
		*d.(*int64) = r.n
	}
	return nil
}

// statsDB answers every query with n, except those mentioning failOn.
type statsDB struct {
	n      int64
	failOn string
}

func (db statsDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	if db.failOn != "" && strings.Contains(sql, db.failOn) {
		return countRow{err: errors.New("relation does not exist")}
	}
	return countRow{n: db.n}
}

func TestAdminService_GetStats(t *testing.T) {
	stats, err := (&AdminService{db: statsDB{n: 3}}).GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAccounts)
	assert.Equal(t, int64(3), stats.ActiveUsersWeek)
	assert.Equal(t, int64(3), stats.CompletedTasks)
}

func TestAdminService_GetStatsReportsQueryErrors(t *testing.T) {
	stats, err := (&AdminService{db: statsDB{n: 3, failOn: "audit_logs"}}).GetStats(context.Background())
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "active today")
}
