package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-management/internal/model"
)

// ReportRepo runs the read-only dashboard aggregations.  Nothing here is
// cached; every call hits the live tables.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

type ReservationReport struct {
	TotalReservations  int64 `json:"total_reservations"`
	ActiveReservations int64 `json:"active_reservations"`
}

type TransactionReport struct {
	TotalTransactions int64 `json:"total_transactions"`
	TotalSalesCents   int64 `json:"total_sales_cents"`
}

type FinancialReport struct {
	BarSalesCents         int64 `json:"bar_sales_cents"`
	RestaurantSalesCents  int64 `json:"restaurant_sales_cents"`
	ReservationSalesCents int64 `json:"reservation_sales_cents"`
	OverallSalesCents     int64 `json:"overall_sales_cents"`
}

// Reservations counts every reservation and the confirmed ones.
func (r *ReportRepo) Reservations(ctx context.Context) (ReservationReport, error) {
	var rep ReservationReport
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(status = 'confirmed'), 0) FROM reservations").
		Scan(&rep.TotalReservations, &rep.ActiveReservations)
	return rep, err
}

// Revenue sums completed payments.
func (r *ReportRepo) Revenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE payment_status = 'completed'").Scan(&total)
	return total, err
}

// Transactions counts sales and sums their totals.
func (r *ReportRepo) Transactions(ctx context.Context) (TransactionReport, error) {
	var rep TransactionReport
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total_price_cents), 0) FROM transactions").
		Scan(&rep.TotalTransactions, &rep.TotalSalesCents)
	return rep, err
}

// Financial combines bar and restaurant sales with every reservation
// payment, whatever its status.
func (r *ReportRepo) Financial(ctx context.Context) (FinancialReport, error) {
	var rep FinancialReport
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN account_type = 'bar' THEN total_price_cents END), 0),
		        COALESCE(SUM(CASE WHEN account_type = 'restaurant' THEN total_price_cents END), 0)
		 FROM transactions`).
		Scan(&rep.BarSalesCents, &rep.RestaurantSalesCents)
	if err != nil {
		return rep, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0) FROM payments").Scan(&rep.ReservationSalesCents); err != nil {
		return rep, err
	}
	rep.OverallSalesCents = rep.BarSalesCents + rep.RestaurantSalesCents + rep.ReservationSalesCents
	return rep, nil
}

// ReservationDetail is a reservation with its room, guest, payment and key
// card inlined for the dashboard listing.
type ReservationDetail struct {
	model.Reservation
	Room struct {
		ID                 uint64 `json:"id"`
		Number             string `json:"number"`
		PricePerNightCents int64  `json:"price_per_night_cents"`
	} `json:"room"`
	Guest struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"guest"`
	Payment *model.Payment `json:"payment"`
	KeyCard *model.KeyCard `json:"key_card"`
}

// ReservationDetails lists every reservation with nested detail.
func (r *ReportRepo) ReservationDetails(ctx context.Context) ([]*ReservationDetail, error) {
	const q = `SELECT res.id, res.guest_id, res.room_id, res.check_in_date, res.check_out_date, res.status,
	                  res.created_at, res.updated_at,
	                  rm.number, rm.price_per_night_cents,
	                  u.username, u.email,
	                  p.id, p.amount_cents, p.payment_method, p.payment_status, p.mobile_transaction_reference, p.payment_date,
	                  k.id, k.key_card_code, k.issued_at
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           JOIN users u ON u.id = res.guest_id
	           LEFT JOIN payments p ON p.reservation_id = res.id
	           LEFT JOIN key_cards k ON k.reservation_id = res.id
	           ORDER BY res.check_in_date DESC, res.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*ReservationDetail{}
	for rows.Next() {
		var (
			d                            ReservationDetail
			payID, payAmount             sql.NullInt64
			payMethod, payStatus, payRef sql.NullString
			payDate, keyIssued           sql.NullTime
			keyID                        sql.NullInt64
			keyCode                      sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.GuestID, &d.RoomID, &d.CheckInDate, &d.CheckOutDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.Room.Number, &d.Room.PricePerNightCents,
			&d.Guest.Username, &d.Guest.Email,
			&payID, &payAmount, &payMethod, &payStatus, &payRef, &payDate,
			&keyID, &keyCode, &keyIssued,
		); err != nil {
			return nil, err
		}
		d.Room.ID = d.RoomID
		d.Guest.ID = d.GuestID
		if payID.Valid {
			d.Payment = &model.Payment{
				ID:            uint64(payID.Int64),
				ReservationID: d.ID,
				AmountCents:   payAmount.Int64,
				PaymentMethod: model.PaymentMethod(payMethod.String),
				PaymentStatus: model.PaymentStatus(payStatus.String),
				PaymentDate:   nullTime(payDate),
			}
			if payRef.Valid {
				d.Payment.MobileTransactionReference = &payRef.String
			}
		}
		if keyID.Valid {
			d.KeyCard = &model.KeyCard{
				ID:            uint64(keyID.Int64),
				ReservationID: d.ID,
				KeyCardCode:   keyCode.String,
				IssuedAt:      nullTime(keyIssued),
			}
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func nullTime(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}
