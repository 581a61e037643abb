package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
)

const roomColumns = "id, number, capacity, price_per_night_cents, description, is_available, created_at, updated_at"

// RoomRepo provides CRUD and availability search for guest rooms.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func scanRoom(s scanner) (*model.Room, error) {
	var rm model.Room
	if err := s.Scan(&rm.ID, &rm.Number, &rm.Capacity, &rm.PricePerNightCents, &rm.Description, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &rm, nil
}

func collectRooms(rows *sql.Rows) ([]*model.Room, error) {
	defer rows.Close()
	out := []*model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Create inserts rm.  A taken room number yields ErrDuplicate.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	rm.Number = strings.TrimSpace(rm.Number)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO rooms (number, capacity, price_per_night_cents, description, is_available) VALUES (?, ?, ?, ?, ?)",
		rm.Number, rm.Capacity, rm.PricePerNightCents, rm.Description, rm.IsAvailable))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*rm = *got
	return nil
}

func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id))
}

func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY number")
	if err != nil {
		return nil, err
	}
	return collectRooms(rows)
}

// ListAvailable returns rooms flagged available.  With a date range it
// also drops rooms holding an overlapping active reservation.
func (r *RoomRepo) ListAvailable(ctx context.Context, checkIn, checkOut *model.Date) ([]*model.Room, error) {
	q := "SELECT " + roomColumns + " FROM rooms WHERE is_available = 1"
	var args []any
	if checkIn != nil && checkOut != nil {
		overlap, overlapArgs := overlapClause("res.", *checkIn, *checkOut)
		q += " AND NOT EXISTS (SELECT 1 FROM reservations res WHERE res.room_id = rooms.id AND " + overlap + ")"
		args = overlapArgs
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY number", args...)
	if err != nil {
		return nil, err
	}
	return collectRooms(rows)
}

func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	rm.Number = strings.TrimSpace(rm.Number)
	return affected(r.db.ExecContext(ctx,
		`UPDATE rooms SET number = ?, capacity = ?, price_per_night_cents = ?, description = ?, is_available = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		rm.Number, rm.Capacity, rm.PricePerNightCents, rm.Description, rm.IsAvailable, rm.ID))
}

// Delete removes the room; its reservations cascade.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id))
}
