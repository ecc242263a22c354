package menus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/storage"
)

type Repo struct {
	adapter storage.Adapter
}

func NewRepo(adapter storage.Adapter) *Repo {
	return &Repo{adapter: adapter}
}

func (r *Repo) Add(ctx context.Context, userID string, menu Menu) error {
	scheduledDays, err := json.Marshal(menu.ScheduledDays)
	if err != nil {
		return fmt.Errorf("marshal scheduled days: %w", err)
	}

	_, err = r.adapter.Run(ctx, storage.Statement{
		SQL: `INSERT INTO training_menus (id, user_id, name, description, scheduled_days, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		Params: []any{
			menu.ID, userID, menu.Name, menu.Description,
			scheduledDays, menu.CreatedAt, menu.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("add menu: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Menu, error) {
	row := r.adapter.First(ctx, storage.Statement{
		SQL: `SELECT id, name, description, scheduled_days, created_at, updated_at
			FROM training_menus WHERE id = $1 AND user_id = $2`,
		Params: []any{id, userID},
	})

	menu, err := scanMenu(row)
	if errors.Is(err, storage.ErrNoRows) {
		return nil, apperrors.NewNotFound("menu not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}
	return menu, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]Menu, error) {
	rows, err := r.adapter.Query(ctx, storage.Statement{
		SQL: `SELECT id, name, description, scheduled_days, created_at, updated_at
			FROM training_menus WHERE user_id = $1 ORDER BY created_at DESC`,
		Params: []any{userID},
	})
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	defer rows.Close()

	var menuList []Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("list menus: %w", err)
		}
		menuList = append(menuList, *menu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menuList, nil
}

// ListByScheduledDay loads all menus for the user and filters by day
// membership. Done in memory, the per-user menu count is small.
func (r *Repo) ListByScheduledDay(ctx context.Context, userID string, day DayOfWeek) ([]Menu, error) {
	menuList, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	scheduled := make([]Menu, 0, len(menuList))
	for _, menu := range menuList {
		if menu.ScheduledOn(day) {
			scheduled = append(scheduled, menu)
		}
	}
	return scheduled, nil
}

func (r *Repo) Update(ctx context.Context, userID string, menu Menu) error {
	scheduledDays, err := json.Marshal(menu.ScheduledDays)
	if err != nil {
		return fmt.Errorf("marshal scheduled days: %w", err)
	}

	result, err := r.adapter.Run(ctx, storage.Statement{
		SQL: `UPDATE training_menus SET name = $1, description = $2, scheduled_days = $3, updated_at = $4
			WHERE id = $5 AND user_id = $6`,
		Params: []any{
			menu.Name, menu.Description, scheduledDays, menu.UpdatedAt,
			menu.ID, userID,
		},
	})
	if err != nil {
		return fmt.Errorf("update menu: %w", err)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("menu not found")
	}
	return nil
}

// Delete removes the menu together with all its records and their sets
// in one atomic batch.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}

	err := r.adapter.Batch(ctx, []storage.Statement{
		{
			SQL: `DELETE FROM training_sets WHERE record_id IN
				(SELECT id FROM training_records WHERE menu_id = $1 AND user_id = $2)`,
			Params: []any{id, userID},
		},
		{
			SQL:    `DELETE FROM training_records WHERE menu_id = $1 AND user_id = $2`,
			Params: []any{id, userID},
		},
		{
			SQL:    `DELETE FROM training_menus WHERE id = $1 AND user_id = $2`,
			Params: []any{id, userID},
		},
	})
	if err != nil {
		return apperrors.NewStorage(fmt.Errorf("delete menu: %w", err))
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanMenu(row scannable) (*Menu, error) {
	var (
		menu          Menu
		scheduledDays []byte
	)
	if err := row.Scan(
		&menu.ID, &menu.Name, &menu.Description,
		&scheduledDays, &menu.CreatedAt, &menu.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scheduledDays, &menu.ScheduledDays); err != nil {
		return nil, fmt.Errorf("unmarshal scheduled days: %w", err)
	}
	return &menu, nil
}
