package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/storage"
)

type Repo struct {
	adapter storage.Adapter
}

func NewRepo(adapter storage.Adapter) *Repo {
	return &Repo{adapter: adapter}
}

// Add persists the record and all its sets as one atomic batch. Set
// order positions are 1-based and follow the slice order.
func (r *Repo) Add(ctx context.Context, userID string, record Record) error {
	stmts := make([]storage.Statement, 0, len(record.Sets)+1)
	stmts = append(stmts, storage.Statement{
		SQL: `INSERT INTO training_records (id, user_id, menu_id, date, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		Params: []any{
			record.ID, userID, record.MenuID, record.Date,
			record.Comment, record.CreatedAt, record.UpdatedAt,
		},
	})
	stmts = append(stmts, setInsertStatements(record.ID, record.Sets)...)

	if err := r.adapter.Batch(ctx, stmts); err != nil {
		return apperrors.NewStorage(fmt.Errorf("add record: %w", err))
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Record, error) {
	row := r.adapter.First(ctx, storage.Statement{
		SQL: `SELECT id, menu_id, date, comment, created_at, updated_at
			FROM training_records WHERE id = $1 AND user_id = $2`,
		Params: []any{id, userID},
	})

	var record Record
	err := row.Scan(
		&record.ID, &record.MenuID, &record.Date, &record.Comment,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, storage.ErrNoRows) {
		return nil, apperrors.NewNotFound("record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	if record.Sets, err = r.setsFor(ctx, record.ID); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all records for the user, newest session first, with
// sets populated.
func (r *Repo) List(ctx context.Context, userID string) ([]Record, error) {
	return r.list(ctx, storage.Statement{
		SQL: `SELECT id, menu_id, date, comment, created_at, updated_at
			FROM training_records WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		Params: []any{userID},
	})
}

func (r *Repo) ListByMenu(ctx context.Context, userID, menuID string) ([]Record, error) {
	return r.list(ctx, storage.Statement{
		SQL: `SELECT id, menu_id, date, comment, created_at, updated_at
			FROM training_records WHERE user_id = $1 AND menu_id = $2 ORDER BY date DESC, created_at DESC`,
		Params: []any{userID, menuID},
	})
}

// GetLatestByMenu returns the most recent record for the menu, or nil
// when the menu has no records yet.
func (r *Repo) GetLatestByMenu(ctx context.Context, userID, menuID string) (*Record, error) {
	recordList, err := r.ListByMenu(ctx, userID, menuID)
	if err != nil {
		return nil, err
	}
	if len(recordList) == 0 {
		return nil, nil
	}
	return &recordList[0], nil
}

// Update rewrites the record row and replaces its whole set collection
// in one atomic batch. Date and menu are immutable.
func (r *Repo) Update(ctx context.Context, userID string, record Record) error {
	if _, err := r.Get(ctx, userID, record.ID); err != nil {
		return err
	}

	stmts := make([]storage.Statement, 0, len(record.Sets)+2)
	stmts = append(stmts,
		storage.Statement{
			SQL: `UPDATE training_records SET comment = $1, updated_at = $2
				WHERE id = $3 AND user_id = $4`,
			Params: []any{record.Comment, record.UpdatedAt, record.ID, userID},
		},
		storage.Statement{
			SQL:    `DELETE FROM training_sets WHERE record_id = $1`,
			Params: []any{record.ID},
		},
	)
	stmts = append(stmts, setInsertStatements(record.ID, record.Sets)...)

	if err := r.adapter.Batch(ctx, stmts); err != nil {
		return apperrors.NewStorage(fmt.Errorf("update record: %w", err))
	}
	return nil
}

// Delete removes the record and its sets atomically.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}

	err := r.adapter.Batch(ctx, []storage.Statement{
		{
			SQL:    `DELETE FROM training_sets WHERE record_id = $1`,
			Params: []any{id},
		},
		{
			SQL:    `DELETE FROM training_records WHERE id = $1 AND user_id = $2`,
			Params: []any{id, userID},
		},
	})
	if err != nil {
		return apperrors.NewStorage(fmt.Errorf("delete record: %w", err))
	}
	return nil
}

func (r *Repo) list(ctx context.Context, stmt storage.Statement) ([]Record, error) {
	rows, err := r.adapter.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recordList []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID, &record.MenuID, &record.Date, &record.Comment,
			&record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
		recordList = append(recordList, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	for i := range recordList {
		if recordList[i].Sets, err = r.setsFor(ctx, recordList[i].ID); err != nil {
			return nil, err
		}
	}
	return recordList, nil
}

func (r *Repo) setsFor(ctx context.Context, recordID string) ([]Set, error) {
	rows, err := r.adapter.Query(ctx, storage.Statement{
		SQL: `SELECT id, weight, reps, duration, rest_time
			FROM training_sets WHERE record_id = $1 ORDER BY set_order ASC`,
		Params: []any{recordID},
	})
	if err != nil {
		return nil, fmt.Errorf("get sets: %w", err)
	}
	defer rows.Close()

	var sets []Set
	for rows.Next() {
		var set Set
		if err := rows.Scan(&set.ID, &set.Weight, &set.Reps, &set.Duration, &set.RestTime); err != nil {
			return nil, fmt.Errorf("get sets: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sets: %w", err)
	}
	return sets, nil
}

func setInsertStatements(recordID string, sets []Set) []storage.Statement {
	stmts := make([]storage.Statement, 0, len(sets))
	for i, set := range sets {
		setID := set.ID
		if setID == "" {
			setID = uuid.NewString()
		}
		stmts = append(stmts, storage.Statement{
			SQL: `INSERT INTO training_sets (id, record_id, set_order, weight, reps, duration, rest_time)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			Params: []any{setID, recordID, i + 1, set.Weight, set.Reps, set.Duration, set.RestTime},
		})
	}
	return stmts
}
