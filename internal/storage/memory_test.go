package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ksasaki/traininglog/pkg"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func insertUser(t *testing.T, adapter *MemoryAdapter, id, email string, createdAt time.Time) {
	t.Helper()
	_, err := adapter.Run(context.Background(), Statement{
		SQL:    `INSERT INTO users (id, email, password_hash, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		Params: []any{id, email, "hash", "Name", createdAt},
	})
	require.NoError(t, err)
}

func TestMemoryAdapter_InsertAndSelect(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	now := time.Now()

	insertUser(t, adapter, "u1", "a@example.com", now)
	insertUser(t, adapter, "u2", "b@example.com", now.Add(time.Second))

	rows, err := adapter.Query(ctx, Statement{
		SQL: `SELECT id, email FROM users WHERE email = $1`,
		Params: []any{
			"b@example.com",
		},
	})
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var id, email string
	require.NoError(t, rows.Scan(&id, &email))
	assert.Equal(t, "u2", id)
	assert.Equal(t, "b@example.com", email)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestMemoryAdapter_FirstNoRows(t *testing.T) {
	adapter := NewMemoryAdapter()
	row := adapter.First(context.Background(), Statement{
		SQL:    `SELECT id, email FROM users WHERE email = $1`,
		Params: []any{"nobody@example.com"},
	})
	var id, email string
	assert.ErrorIs(t, row.Scan(&id, &email), ErrNoRows)
}

func TestMemoryAdapter_UniqueEmailViolation(t *testing.T) {
	adapter := NewMemoryAdapter()
	now := time.Now()
	insertUser(t, adapter, "u1", "dup@example.com", now)

	_, err := adapter.Run(context.Background(), Statement{
		SQL:    `INSERT INTO users (id, email, password_hash, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		Params: []any{"u2", "dup@example.com", "hash", "Other", now},
	})
	require.Error(t, err)
	assert.True(t, pkg.IsUniqueViolationError(err))
}

func TestMemoryAdapter_UpdateAndDelete(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	now := time.Now()
	insertUser(t, adapter, "u1", "a@example.com", now)

	result, err := adapter.Run(ctx, Statement{
		SQL:    `UPDATE users SET name = $1 WHERE id = $2`,
		Params: []any{"Renamed", "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsAffected)

	var name string
	require.NoError(t, adapter.First(ctx, Statement{
		SQL:    `SELECT name FROM users WHERE id = $1`,
		Params: []any{"u1"},
	}).Scan(&name))
	assert.Equal(t, "Renamed", name)

	result, err = adapter.Run(ctx, Statement{
		SQL:    `DELETE FROM users WHERE id = $1`,
		Params: []any{"u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsAffected)

	assert.ErrorIs(t, adapter.First(ctx, Statement{
		SQL:    `SELECT name FROM users WHERE id = $1`,
		Params: []any{"u1"},
	}).Scan(&name), ErrNoRows)
}

func TestMemoryAdapter_OrderBy(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, record := range []struct {
		id, date  string
		createdAt time.Time
	}{
		{"r1", "2024-01-02", base},
		{"r2", "2024-01-05", base.Add(time.Minute)},
		{"r3", "2024-01-05", base.Add(2 * time.Minute)},
	} {
		_, err := adapter.Run(ctx, Statement{
			SQL: `INSERT INTO training_records (id, user_id, menu_id, date, comment, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{record.id, "u1", "m1", record.date, "", record.createdAt, record.createdAt},
		})
		require.NoError(t, err)
	}

	rows, err := adapter.Query(ctx, Statement{
		SQL:    `SELECT id FROM training_records WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		Params: []any{"u1"},
	})
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids)
}

func TestMemoryAdapter_NullableInt(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	duration := 60

	_, err := adapter.Run(ctx, Statement{
		SQL: `INSERT INTO training_sets (id, record_id, set_order, weight, reps, duration, rest_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		Params: []any{"s1", "r1", 1, 50.0, 10, &duration, (*int)(nil)},
	})
	require.NoError(t, err)

	var (
		weight               float64
		reps                 int
		gotDuration, gotRest *int
	)
	require.NoError(t, adapter.First(ctx, Statement{
		SQL:    `SELECT weight, reps, duration, rest_time FROM training_sets WHERE id = $1`,
		Params: []any{"s1"},
	}).Scan(&weight, &reps, &gotDuration, &gotRest))

	assert.Equal(t, 50.0, weight)
	assert.Equal(t, 10, reps)
	require.NotNil(t, gotDuration)
	assert.Equal(t, 60, *gotDuration)
	assert.Nil(t, gotRest)
}

func TestMemoryAdapter_DeleteWithSubquery(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	now := time.Now()

	for _, record := range []struct{ id, menuID string }{
		{"r1", "m1"}, {"r2", "m1"}, {"r3", "m2"},
	} {
		_, err := adapter.Run(ctx, Statement{
			SQL: `INSERT INTO training_records (id, user_id, menu_id, date, comment, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{record.id, "u1", record.menuID, "2024-01-01", "", now, now},
		})
		require.NoError(t, err)
	}
	for i, recordID := range []string{"r1", "r2", "r3"} {
		_, err := adapter.Run(ctx, Statement{
			SQL: `INSERT INTO training_sets (id, record_id, set_order, weight, reps, duration, rest_time)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{"s" + recordID, recordID, i + 1, 40.0, 8, (*int)(nil), (*int)(nil)},
		})
		require.NoError(t, err)
	}

	result, err := adapter.Run(ctx, Statement{
		SQL: `DELETE FROM training_sets WHERE record_id IN
			(SELECT id FROM training_records WHERE menu_id = $1 AND user_id = $2)`,
		Params: []any{"m1", "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.RowsAffected)

	rows, err := adapter.Query(ctx, Statement{
		SQL:    `SELECT id FROM training_sets WHERE record_id = $1`,
		Params: []any{"r3"},
	})
	require.NoError(t, err)
	defer rows.Close()
	assert.True(t, rows.Next())
}

func TestMemoryAdapter_BatchAtomicity(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	now := time.Now()
	insertUser(t, adapter, "u1", "taken@example.com", now)

	// second statement violates the unique email, so the record insert
	// from the first statement must not survive
	err := adapter.Batch(ctx, []Statement{
		{
			SQL: `INSERT INTO training_records (id, user_id, menu_id, date, comment, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{"r1", "u1", "m1", "2024-01-01", "", now, now},
		},
		{
			SQL:    `INSERT INTO users (id, email, password_hash, name, created_at) VALUES ($1, $2, $3, $4, $5)`,
			Params: []any{"u2", "taken@example.com", "hash", "Dup", now},
		},
	})
	require.Error(t, err)

	var id string
	assert.ErrorIs(t, adapter.First(ctx, Statement{
		SQL:    `SELECT id FROM training_records WHERE id = $1`,
		Params: []any{"r1"},
	}).Scan(&id), ErrNoRows)
}

func TestMemoryAdapter_BatchCommit(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()
	now := time.Now()

	err := adapter.Batch(ctx, []Statement{
		{
			SQL: `INSERT INTO training_records (id, user_id, menu_id, date, comment, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{"r1", "u1", "m1", "2024-01-01", "", now, now},
		},
		{
			SQL: `INSERT INTO training_sets (id, record_id, set_order, weight, reps, duration, rest_time)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{"s1", "r1", 1, 60.0, 5, (*int)(nil), (*int)(nil)},
		},
	})
	require.NoError(t, err)

	var setID string
	require.NoError(t, adapter.First(ctx, Statement{
		SQL:    `SELECT id FROM training_sets WHERE record_id = $1`,
		Params: []any{"r1"},
	}).Scan(&setID))
	assert.Equal(t, "s1", setID)
}
