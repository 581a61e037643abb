package model

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodMobile PaymentMethod = "mobile"
	MethodCard   PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodMobile, MethodCard:
		return true
	}
	return false
}

// InitialStatus derives the status a new payment starts in.  Cash and
// mobile money settle on the spot; card payments wait for confirmation.
func (m PaymentMethod) InitialStatus() PaymentStatus {
	if m == MethodCash || m == MethodMobile {
		return PaymentCompleted
	}
	return PaymentPending
}

// Payment settles one reservation.  Amounts are in cents.
type Payment struct {
	ID                         uint64        `json:"id"`
	ReservationID              uint64        `json:"reservation_id"`
	AmountCents                int64         `json:"amount_cents"`
	PaymentMethod              PaymentMethod `json:"payment_method"`
	PaymentStatus              PaymentStatus `json:"payment_status"`
	MobileTransactionReference *string       `json:"mobile_transaction_reference"`
	PaymentDate                time.Time     `json:"payment_date"`
}

// NewPayment validates input and derives the initial status.
func NewPayment(reservationID uint64, amountCents int64, method PaymentMethod, mobileRef *string) (*Payment, error) {
	v := &ValidationError{}
	if reservationID == 0 {
		v.Add("reservation_id", "This field is required.")
	}
	if amountCents <= 0 {
		v.Add("amount_cents", "Amount must be greater than zero.")
	}
	if !method.Valid() {
		v.Add("payment_method", `"`+string(method)+`" is not a valid choice.`)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if mobileRef != nil {
		ref := strings.TrimSpace(*mobileRef)
		if ref == "" {
			mobileRef = nil
		} else {
			mobileRef = &ref
		}
	}
	return &Payment{
		ReservationID:              reservationID,
		AmountCents:                amountCents,
		PaymentMethod:              method,
		PaymentStatus:              method.InitialStatus(),
		MobileTransactionReference: mobileRef,
	}, nil
}

// MarkAsPaid completes a pending payment.  It reports whether the status
// changed; an already completed payment is left as is.
func (p *Payment) MarkAsPaid() bool {
	if p.PaymentStatus != PaymentPending {
		return false
	}
	p.PaymentStatus = PaymentCompleted
	return true
}
