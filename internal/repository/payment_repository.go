package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/model"
)

const paymentSelect = `SELECT p.id, p.reservation_id, p.amount_cents, p.payment_method, p.payment_status,
	p.mobile_transaction_reference, p.payment_date
	FROM payments p JOIN reservations r ON r.id = p.reservation_id`

// PaymentRepo stores the single payment each reservation may carry.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func scanPayment(s scanner) (*model.Payment, error) {
	var (
		p   model.Payment
		ref sql.NullString
	)
	if err := s.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.PaymentMethod, &p.PaymentStatus, &ref, &p.PaymentDate); err != nil {
		return nil, translate(err)
	}
	if ref.Valid {
		p.MobileTransactionReference = &ref.String
	}
	return &p, nil
}

// Create inserts p as built by model.NewPayment.  A second payment for the
// same reservation yields ErrDuplicate.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	id, err := insertedID(r.db.ExecContext(ctx,
		`INSERT INTO payments (reservation_id, amount_cents, payment_method, payment_status, mobile_transaction_reference)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ReservationID, p.AmountCents, string(p.PaymentMethod), string(p.PaymentStatus), p.MobileTransactionReference))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id, nil)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByID fetches one payment.  A non-nil guestID hides payments of other
// guests' reservations.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64, guestID *uint64) (*model.Payment, error) {
	q := paymentSelect + " WHERE p.id = ?"
	args := []any{id}
	if guestID != nil {
		q += " AND r.guest_id = ?"
		args = append(args, *guestID)
	}
	return scanPayment(r.db.QueryRowContext(ctx, q, args...))
}

func (r *PaymentRepo) List(ctx context.Context, guestID *uint64) ([]*model.Payment, error) {
	q := paymentSelect
	var args []any
	if guestID != nil {
		q += " WHERE r.guest_id = ?"
		args = append(args, *guestID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY p.payment_date DESC, p.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkAsPaid completes a pending payment under a row lock.  changed is
// false when the payment was already completed.
func (r *PaymentRepo) MarkAsPaid(ctx context.Context, id uint64) (p *model.Payment, changed bool, err error) {
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		got, err := scanPayment(tx.QueryRowContext(ctx, paymentSelect+" WHERE p.id = ? FOR UPDATE", id))
		if err != nil {
			return err
		}
		p = got
		if changed = p.MarkAsPaid(); !changed {
			return nil
		}
		_, err = tx.ExecContext(ctx, "UPDATE payments SET payment_status = ? WHERE id = ?", string(p.PaymentStatus), p.ID)
		return err
	})
	return p, changed, err
}

func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id))
}
