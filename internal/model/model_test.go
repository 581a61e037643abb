package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var v *ValidationError
	require.True(t, errors.As(err, &v), "expected *ValidationError, got %v", err)
	return v.Fields
}

func TestValidateStay(t *testing.T) {
	today := NewDate(2030, time.March, 10)

	assert.NoError(t, ValidateStay(today, today.AddDays(1), today))

	f := fields(t, ValidateStay(today, today, today))
	assert.Equal(t, "Check-out date must be after check-in date.", f["check_out_date"])

	f = fields(t, ValidateStay(today.AddDays(-1), today.AddDays(2), today))
	assert.Equal(t, "Check-in date cannot be in the past.", f["check_in_date"])
	assert.NotContains(t, f, "check_out_date")

	f = fields(t, ValidateStay(Date{}, Date{}, today))
	assert.Len(t, f, 2)
}

func TestReservationLifecycle(t *testing.T) {
	r := &Reservation{Status: StatusPending}

	err := r.CheckIn()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Reservation must be confirmed before check-in", err.Error())
	assert.Equal(t, StatusPending, r.Status)

	require.NoError(t, r.Confirm())
	assert.False(t, r.Editable())
	require.NoError(t, r.CheckIn())
	require.NoError(t, r.CheckOut())
	assert.Equal(t, StatusCheckedOut, r.Status)

	assert.ErrorIs(t, r.Confirm(), ErrInvalidTransition)
	assert.ErrorIs(t, r.CheckOut(), ErrInvalidTransition)
}

func TestBlockingStatuses(t *testing.T) {
	assert.ElementsMatch(t, []ReservationStatus{StatusPending, StatusConfirmed, StatusCheckedIn}, BlockingStatuses)
	assert.NotContains(t, BlockingStatuses, StatusCheckedOut)
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2030-02-28"`), &d))
	assert.Equal(t, NewDate(2030, time.February, 28), d)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2030-02-28"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`"28/02/2030"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20300228`), &d))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2030, 1, 2, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2030-01-02", d.String())

	require.NoError(t, d.Scan([]byte("2030-01-03 00:00:00")))
	assert.Equal(t, "2030-01-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestNewPayment(t *testing.T) {
	ref := "  MP-123  "
	p, err := NewPayment(1, 5000, MethodMobile, &ref)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, p.PaymentStatus)
	require.NotNil(t, p.MobileTransactionReference)
	assert.Equal(t, "MP-123", *p.MobileTransactionReference)

	p, err = NewPayment(1, 5000, MethodCard, nil)
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, p.PaymentStatus)
	assert.True(t, p.MarkAsPaid())
	assert.False(t, p.MarkAsPaid())
	assert.Equal(t, PaymentCompleted, p.PaymentStatus)

	f := fields(t, func() error { _, err := NewPayment(1, 0, "cheque", nil); return err }())
	assert.Equal(t, "Amount must be greater than zero.", f["amount_cents"])
	assert.Equal(t, `"cheque" is not a valid choice.`, f["payment_method"])
}

func TestInventorySell(t *testing.T) {
	item := &InventoryItem{Name: "Soda", Quantity: 10, PriceCents: 250}

	total, err := item.Sell(4)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
	assert.Equal(t, int64(6), item.Quantity)

	_, err = item.Sell(7)
	var se *StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int64(6), se.Available)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, int64(6), item.Quantity)

	total, err = item.Sell(6)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), total)
	assert.Zero(t, item.Quantity)

	_, err = item.Sell(0)
	assert.Contains(t, fields(t, err), "quantity_sold")
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleAdmin.Can(CapManageUsers))
	assert.True(t, RoleAdmin.Can(CapViewFinancials))
	assert.True(t, RoleManager.Can(CapViewReports))
	assert.False(t, RoleManager.Can(CapViewFinancials))
	assert.True(t, RoleStaff.Can(CapFrontDesk))
	assert.False(t, RoleStaff.Can(CapViewReports))
	assert.False(t, RoleGuest.Can(CapFrontDesk))
	assert.True(t, RoleGuest.Can(CapSelfService))

	assert.True(t, RoleStaff.Elevated())
	assert.False(t, RoleGuest.Elevated())

	_, ok := ParseRole("root")
	assert.False(t, ok)
	assert.False(t, Role("root").Can(CapViewFacilities))
}

func TestFrontDeskRecords(t *testing.T) {
	l := &CCTVLog{RoomID: 1, Action: "door opened", Status: CCTVEntry}
	assert.NoError(t, l.Validate())

	f := fields(t, (&CCTVLog{Status: "loitering"}).Validate())
	assert.Contains(t, f, "room_id")
	assert.Contains(t, f, "action")
	assert.Equal(t, `"loitering" is not a valid choice.`, f["status"])

	assert.NoError(t, (&OfflineData{Data: json.RawMessage(`{"room":1}`)}).Validate())
	assert.Error(t, (&OfflineData{Data: json.RawMessage(`{room`)}).Validate())
	assert.Error(t, (&OfflineData{}).Validate())
}

func TestOrderComplete(t *testing.T) {
	o := &RoomServiceOrder{Status: OrderPending}
	require.NoError(t, o.Complete())
	assert.Equal(t, OrderCompleted, o.Status)
	assert.ErrorIs(t, o.Complete(), ErrInvalidTransition)
}

func TestAccounts(t *testing.T) {
	k, ok := ParseAccountKind(" Bar ")
	assert.True(t, ok)
	assert.Equal(t, AccountBar, k)
	_, ok = ParseAccountKind("reservation")
	assert.False(t, ok)

	assert.NoError(t, ValidateAccount("main bar", "secret1", true))
	f := fields(t, ValidateAccount("", "", true))
	assert.Equal(t, "This field may not be blank.", f["password"])
	f = fields(t, ValidateAccount("till", "abc", false))
	assert.Equal(t, "Ensure this field has at least 6 characters.", f["password"])
	assert.NoError(t, ValidateAccount("till", "", false))
}

func TestValidationErrorFirstMessageWins(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())
	v.Add("name", "first")
	v.Add("name", "second")
	v.Add("age", "bad")
	assert.Equal(t, "first", v.Fields["name"])
	assert.Equal(t, "validation failed: age: bad; name: first", v.Error())
}
