package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/model"
)

const reservationColumns = "id, guest_id, room_id, check_in_date, check_out_date, status, created_at, updated_at"

// ReservationRepo stores stays and guards their lifecycle.  Every write
// runs in a transaction that holds the affected rows locked, so two
// requests can neither double-book a room nor both advance the same
// reservation.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func scanReservation(s scanner) (*model.Reservation, error) {
	var res model.Reservation
	if err := s.Scan(&res.ID, &res.GuestID, &res.RoomID, &res.CheckInDate, &res.CheckOutDate, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

// overlapClause matches reservations, columns prefixed by col, that hold
// the room for any night of [checkIn, checkOut).
func overlapClause(col string, checkIn, checkOut model.Date) (string, []any) {
	marks := strings.TrimPrefix(strings.Repeat(",?", len(model.BlockingStatuses)), ",")
	args := lo.Map(model.BlockingStatuses, func(s model.ReservationStatus, _ int) any { return string(s) })
	clause := col + "status IN (" + marks + ") AND " + col + "check_in_date < ? AND " + col + "check_out_date > ?"
	return clause, append(args, checkOut, checkIn)
}

// lockRoomForStay locks the room row and rejects the stay when the room is
// withdrawn or another active reservation overlaps [checkIn, checkOut).
// exclude skips the reservation being edited.
func lockRoomForStay(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut model.Date, exclude uint64) error {
	var available bool
	err := tx.QueryRowContext(ctx, "SELECT is_available FROM rooms WHERE id = ? FOR UPDATE", roomID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !available {
		return ErrRoomUnavailable
	}
	overlap, args := overlapClause("", checkIn, checkOut)
	var clashes int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE room_id = ? AND id <> ? AND "+overlap,
		append([]any{roomID, exclude}, args...)...).Scan(&clashes)
	if err != nil {
		return err
	}
	if clashes > 0 {
		return ErrRoomUnavailable
	}
	return nil
}

// Create books res.RoomID for the requested dates in pending state.  The
// room must exist (ErrNotFound) and be free (ErrRoomUnavailable).
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRoomForStay(ctx, tx, res.RoomID, res.CheckInDate, res.CheckOutDate, 0); err != nil {
			return err
		}
		res.Status = model.StatusPending
		id, err := insertedID(tx.ExecContext(ctx,
			"INSERT INTO reservations (guest_id, room_id, check_in_date, check_out_date, status) VALUES (?, ?, ?, ?, ?)",
			res.GuestID, res.RoomID, res.CheckInDate, res.CheckOutDate, string(res.Status)))
		if err != nil {
			return err
		}
		got, err := scanReservation(tx.QueryRowContext(ctx,
			"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
		if err != nil {
			return err
		}
		*res = *got
		return nil
	})
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
}

// List returns reservations newest first.  A non-nil guestID restricts
// the result to that guest's stays.
func (r *ReservationRepo) List(ctx context.Context, guestID *uint64) ([]*model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations"
	var args []any
	if guestID != nil {
		q += " WHERE guest_id = ?"
		args = append(args, *guestID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY check_in_date DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// lockReservation loads id under a row lock.
func lockReservation(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	return scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id))
}

// Reschedule locks the reservation, lets edit change its room or dates,
// then re-runs the availability check before saving.  edit may refuse by
// returning an error, which aborts the transaction unchanged.
func (r *ReservationRepo) Reschedule(ctx context.Context, id uint64, edit func(*model.Reservation) error) (*model.Reservation, error) {
	var out *model.Reservation
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := edit(res); err != nil {
			return err
		}
		if err := lockRoomForStay(ctx, tx, res.RoomID, res.CheckInDate, res.CheckOutDate, res.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE reservations SET room_id = ?, check_in_date = ?, check_out_date = ? WHERE id = ?",
			res.RoomID, res.CheckInDate, res.CheckOutDate, res.ID); err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

// Transition locks the reservation and applies step (Confirm, CheckIn or
// CheckOut).  A rejected step leaves the stored status untouched.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, step func(*model.Reservation) error) (*model.Reservation, error) {
	var out *model.Reservation
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := step(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE reservations SET status = ? WHERE id = ?", string(res.Status), res.ID); err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

// Delete removes the reservation together with its payment, key card and
// room-service orders (FK cascade).
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id))
}
