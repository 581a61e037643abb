package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
)

const hallColumns = "id, name, capacity, description, is_available, created_at, updated_at"

// HallRepo provides CRUD for function halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

func scanHall(s scanner) (*model.Hall, error) {
	var (
		h    model.Hall
		desc sql.NullString
	)
	if err := s.Scan(&h.ID, &h.Name, &h.Capacity, &desc, &h.IsAvailable, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if desc.Valid {
		h.Description = &desc.String
	}
	return &h, nil
}

// Create inserts h and reads the row back so defaults and timestamps are
// populated.  A taken name yields ErrDuplicate.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	h.Name = strings.TrimSpace(h.Name)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO halls (name, capacity, description, is_available) VALUES (?, ?, ?, ?)",
		h.Name, h.Capacity, h.Description, h.IsAvailable))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*h = *got
	return nil
}

// GetByID returns ErrNotFound when no row matches.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	return scanHall(r.db.QueryRowContext(ctx, "SELECT "+hallColumns+" FROM halls WHERE id = ?", id))
}

// List returns every hall, or only bookable ones when onlyAvailable is set.
func (r *HallRepo) List(ctx context.Context, onlyAvailable bool) ([]*model.Hall, error) {
	q := "SELECT " + hallColumns + " FROM halls"
	if onlyAvailable {
		q += " WHERE is_available = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Hall{}
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable columns of h.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	h.Name = strings.TrimSpace(h.Name)
	return affected(r.db.ExecContext(ctx,
		`UPDATE halls SET name = ?, capacity = ?, description = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		h.Name, h.Capacity, h.Description, h.IsAvailable, h.ID))
}

func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM halls WHERE id = ?", id))
}
