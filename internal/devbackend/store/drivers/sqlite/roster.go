package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/domain"
)

type shiftsRepo struct {
	q dbtx
}

func (r *shiftsRepo) CreateShift(ctx context.Context, s domain.Shift) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO shifts (id, staff_id, start_at, end_at, role, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.StaffID, millis(s.Start), millis(s.End), s.Role, s.Notes,
	)
	return mapConstraint(err)
}

func (r *shiftsRepo) ListShifts(ctx context.Context, from, to time.Time) ([]domain.Shift, error) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "s.start_at >= ?")
		args = append(args, millis(from))
	}
	if !to.IsZero() {
		where = append(where, "s.start_at < ?")
		args = append(args, millis(to))
	}

	query := `
		SELECT s.id, s.staff_id, u.name, s.start_at, s.end_at, s.role, s.notes
		FROM shifts s JOIN users u ON u.id = s.staff_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.start_at, s.id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shift
	for rows.Next() {
		var (
			s          domain.Shift
			start, end int64
		)
		if err := rows.Scan(&s.ID, &s.StaffID, &s.StaffName, &start, &end, &s.Role, &s.Notes); err != nil {
			return nil, err
		}
		s.Start = fromMillis(start)
		s.End = fromMillis(end)
		out = append(out, s)
	}
	return out, rows.Err()
}

type itemsRepo struct {
	q dbtx
}

func (r *itemsRepo) CreateItem(ctx context.Context, it domain.ConsumptionItem) error {
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = time.Now()
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO consumption_items (id, name, category, unit_price, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, it.Category, it.UnitPrice, it.Active, millis(it.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *itemsRepo) ListItems(ctx context.Context) ([]domain.ConsumptionItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, category, unit_price, active, updated_at
		FROM consumption_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ConsumptionItem
	for rows.Next() {
		var (
			it      domain.ConsumptionItem
			updated int64
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.UnitPrice, &it.Active, &updated); err != nil {
			return nil, err
		}
		it.UpdatedAt = fromMillis(updated)
		out = append(out, it)
	}
	return out, rows.Err()
}
