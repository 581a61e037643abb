package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/model"
)

// LogRepo covers the front-desk side records: CCTV door events, offline
// payloads awaiting sync and room-service orders.
type LogRepo struct {
	db *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{db: db} }

// CreateCCTV appends a door event.
func (r *LogRepo) CreateCCTV(ctx context.Context, l *model.CCTVLog) error {
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO cctv_logs (room_id, user_id, action, status) VALUES (?, ?, ?, ?)",
		l.RoomID, l.UserID, strings.TrimSpace(l.Action), string(l.Status)))
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		"SELECT id, room_id, user_id, action, status, timestamp FROM cctv_logs WHERE id = ?", id).
		Scan(&l.ID, &l.RoomID, &l.UserID, &l.Action, &l.Status, &l.Timestamp)
}

// ListCCTV returns door events newest first, optionally for one room.
func (r *LogRepo) ListCCTV(ctx context.Context, roomID *uint64) ([]*model.CCTVLog, error) {
	q := "SELECT id, room_id, user_id, action, status, timestamp FROM cctv_logs"
	var args []any
	if roomID != nil {
		q += " WHERE room_id = ?"
		args = append(args, *roomID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY timestamp DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.CCTVLog{}
	for rows.Next() {
		var l model.CCTVLog
		if err := rows.Scan(&l.ID, &l.RoomID, &l.UserID, &l.Action, &l.Status, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func scanOffline(s scanner) (*model.OfflineData, error) {
	var (
		o    model.OfflineData
		data []byte
	)
	if err := s.Scan(&o.ID, &data, &o.Synced, &o.CreatedAt); err != nil {
		return nil, translate(err)
	}
	o.Data = data
	return &o, nil
}

// CreateOffline stores an unsynced payload.
func (r *LogRepo) CreateOffline(ctx context.Context, o *model.OfflineData) error {
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO offline_data (data) VALUES (?)", []byte(o.Data)))
	if err != nil {
		return err
	}
	got, err := scanOffline(r.db.QueryRowContext(ctx,
		"SELECT id, data, synced, created_at FROM offline_data WHERE id = ?", id))
	if err != nil {
		return err
	}
	*o = *got
	return nil
}

// ListOffline returns payloads oldest first; pendingOnly hides synced ones.
func (r *LogRepo) ListOffline(ctx context.Context, pendingOnly bool) ([]*model.OfflineData, error) {
	q := "SELECT id, data, synced, created_at FROM offline_data"
	if pendingOnly {
		q += " WHERE synced = 0"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.OfflineData{}
	for rows.Next() {
		o, err := scanOffline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// MarkSynced flags a payload as synced.  Re-syncing is a no-op.
func (r *LogRepo) MarkSynced(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "UPDATE offline_data SET synced = 1 WHERE id = ?", id))
}

const orderSelect = `SELECT o.id, o.reservation_id, o.description, o.status, o.created_at
	FROM room_service_orders o JOIN reservations r ON r.id = o.reservation_id`

func scanOrder(s scanner) (*model.RoomServiceOrder, error) {
	var o model.RoomServiceOrder
	if err := s.Scan(&o.ID, &o.ReservationID, &o.Description, &o.Status, &o.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// CreateOrder inserts a pending room-service order.
func (r *LogRepo) CreateOrder(ctx context.Context, o *model.RoomServiceOrder) error {
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO room_service_orders (reservation_id, description) VALUES (?, ?)",
		o.ReservationID, strings.TrimSpace(o.Description)))
	if err != nil {
		return err
	}
	got, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+" WHERE o.id = ?", id))
	if err != nil {
		return err
	}
	*o = *got
	return nil
}

// ListOrders returns orders newest first; a non-nil guestID restricts
// them to that guest's reservations.
func (r *LogRepo) ListOrders(ctx context.Context, guestID *uint64) ([]*model.RoomServiceOrder, error) {
	q := orderSelect
	var args []any
	if guestID != nil {
		q += " WHERE r.guest_id = ?"
		args = append(args, *guestID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY o.created_at DESC, o.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.RoomServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CompleteOrder locks the order and marks it delivered.
func (r *LogRepo) CompleteOrder(ctx context.Context, id uint64) (*model.RoomServiceOrder, error) {
	var out *model.RoomServiceOrder
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		o, err := scanOrder(tx.QueryRowContext(ctx,
			"SELECT id, reservation_id, description, status, created_at FROM room_service_orders WHERE id = ? FOR UPDATE", id))
		if err != nil {
			return err
		}
		if err := o.Complete(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE room_service_orders SET status = ? WHERE id = ?", string(o.Status), o.ID); err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}
