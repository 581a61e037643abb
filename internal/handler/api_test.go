package handler_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/router"
	"github.com/iliyamo/hotel-management/internal/utils"
)

const secret = "test-secret"

var (
	now          = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	userCols     = []string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}
	resCols      = []string{"id", "guest_id", "room_id", "check_in_date", "check_out_date", "status", "created_at", "updated_at"}
	paymentCols  = []string{"id", "reservation_id", "amount_cents", "payment_method", "payment_status", "mobile_transaction_reference", "payment_date"}
	checkInDate  = model.Today().AddDays(10)
	checkOutDate = model.Today().AddDays(12)
)

func q(s string) string { return regexp.QuoteMeta(s) }

type published struct {
	events []queue.StayEvent
}

func (p *published) Publish(_ context.Context, ev queue.StayEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type APISuite struct {
	suite.Suite
	db     *sql.DB
	mock   sqlmock.Sqlmock
	e      *echo.Echo
	events *published
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db, s.mock = db, mock
	s.events = &published{}

	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: bcrypt.MinCost}
	s.e = echo.New()
	s.e.Validator = handler.NewValidator()
	router.Mount(s.e, router.NewHandlers(cfg, db, s.events), nil, secret, nil)
}

func (s *APISuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

// call performs a request as user id with role; id 0 is anonymous.
func (s *APISuite) call(method, path, body string, id uint64, role model.Role) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if id != 0 {
		tok, err := utils.NewAccessToken(secret, id, role, 5)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func fieldErrors(body map[string]any) map[string]any {
	m, _ := body["errors"].(map[string]any)
	return m
}

func (s *APISuite) TestHealth() {
	rec, body := s.call(http.MethodGet, "/healthz", "", 0, "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", body["status"])
}

func (s *APISuite) TestAnonymousRejected() {
	rec, _ := s.call(http.MethodGet, "/rooms", "", 0, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestGuestCannotManageRooms() {
	rec, body := s.call(http.MethodPost, "/rooms", `{"number":"101","capacity":2}`, 3, model.RoleGuest)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("You do not have permission to perform this action.", body["error"])
}

func (s *APISuite) TestCreateRoomRejectsZeroCapacity() {
	rec, body := s.call(http.MethodPost, "/rooms", `{"number":"101","capacity":0,"price_per_night_cents":1000}`, 1, model.RoleAdmin)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Capacity must be greater than zero.", fieldErrors(body)["capacity"])
}

func (s *APISuite) TestSignUpShortPassword() {
	rec, body := s.call(http.MethodPost, "/users/sign_up", `{"username":"ann","email":"ann@example.com","password":"short"}`, 0, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Ensure this field has at least 8 characters.", fieldErrors(body)["password"])
}

func (s *APISuite) TestSignUpDuplicateEmail() {
	s.mock.ExpectQuery(q("FROM users WHERE username = ? OR email = ?")).
		WithArgs("ann", "ann@example.com", "ann", "ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"u", "e"}).AddRow(false, true))

	rec, body := s.call(http.MethodPost, "/users/sign_up", `{"username":"ann","email":"Ann@Example.com","password":"longenough"}`, 0, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("user with this email already exists.", fieldErrors(body)["email"])
}

func (s *APISuite) TestSignUpCreatesGuest() {
	s.mock.ExpectQuery(q("FROM users WHERE username = ? OR email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"u", "e"}).AddRow(false, false))
	s.mock.ExpectExec(q("INSERT INTO users (username, email, password_hash, role)")).
		WithArgs("ann", "ann@example.com", sqlmock.AnyArg(), "guest").
		WillReturnResult(sqlmock.NewResult(4, 1))

	rec, body := s.call(http.MethodPost, "/users/sign_up", `{"username":"ann","email":"ann@example.com","password":"longenough"}`, 0, "")
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("Registration successful", body["message"])
}

func (s *APISuite) TestSignInNeverReturnsHash() {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.mock.ExpectQuery(q("FROM users WHERE username=?")).WithArgs("ann").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "ann", "ann@example.com", string(hash), "guest", true, now, now))
	s.mock.ExpectExec(q("INSERT INTO refresh_tokens")).
		WithArgs(4, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, body := s.call(http.MethodPost, "/users/sign_in", `{"username":"ann","password":"longenough"}`, 0, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Login successful", body["message"])
	s.NotContains(rec.Body.String(), string(hash))
	s.NotContains(rec.Body.String(), "password")

	access := body["access"].(map[string]any)["token"].(string)
	id, err := utils.ParseAccessToken(secret, access)
	s.Require().NoError(err)
	s.Equal(uint64(4), id.UserID)
	s.Equal(model.RoleGuest, id.Role)
}

func (s *APISuite) TestSignInWrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.mock.ExpectQuery(q("FROM users WHERE username=?")).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "ann", "ann@example.com", string(hash), "guest", true, now, now))

	rec, body := s.call(http.MethodPost, "/users/sign_in", `{"username":"ann","password":"wrong-one"}`, 0, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid credentials", body["error"])
}

func (s *APISuite) TestReservationSameDayCheckOut() {
	day := checkInDate.String()
	rec, body := s.call(http.MethodPost, "/reservations",
		`{"room_id":1,"check_in_date":"`+day+`","check_out_date":"`+day+`"}`, 3, model.RoleGuest)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Check-out date must be after check-in date.", fieldErrors(body)["check_out_date"])
}

func (s *APISuite) TestReservationPastCheckIn() {
	rec, body := s.call(http.MethodPost, "/reservations",
		`{"room_id":1,"check_in_date":"2000-01-01","check_out_date":"`+checkOutDate.String()+`"}`, 3, model.RoleGuest)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Check-in date cannot be in the past.", fieldErrors(body)["check_in_date"])
}

func (s *APISuite) TestGuestCannotBookForOthers() {
	rec, _ := s.call(http.MethodPost, "/reservations",
		`{"room_id":1,"guest_id":9,"check_in_date":"`+checkInDate.String()+`","check_out_date":"`+checkOutDate.String()+`"}`,
		3, model.RoleGuest)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestCreateReservation() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT is_available FROM rooms WHERE id = ? FOR UPDATE")).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"is_available"}).AddRow(true))
	s.mock.ExpectQuery(q("SELECT COUNT(*) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	s.mock.ExpectExec(q("INSERT INTO reservations")).
		WithArgs(3, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), "pending").
		WillReturnResult(sqlmock.NewResult(5, 1))
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ?")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 3, 1, checkInDate.Time, checkOutDate.Time, "pending", now, now))
	s.mock.ExpectCommit()

	rec, body := s.call(http.MethodPost, "/reservations",
		`{"room_id":1,"check_in_date":"`+checkInDate.String()+`","check_out_date":"`+checkOutDate.String()+`"}`, 3, model.RoleGuest)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Equal("pending", body["status"])
	s.Equal(checkInDate.String(), body["check_in_date"])
}

func (s *APISuite) TestCreateReservationOverlap() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("FROM rooms WHERE id = ? FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"is_available"}).AddRow(true))
	s.mock.ExpectQuery(q("SELECT COUNT(*) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	s.mock.ExpectRollback()

	rec, body := s.call(http.MethodPost, "/reservations",
		`{"room_id":1,"check_in_date":"`+checkInDate.String()+`","check_out_date":"`+checkOutDate.String()+`"}`, 3, model.RoleGuest)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("room is not available for the selected dates", body["error"])
}

func (s *APISuite) TestGuestCannotConfirm() {
	rec, _ := s.call(http.MethodPost, "/reservations/5/confirm", "", 3, model.RoleGuest)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestCheckInRequiresConfirmed() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ? FOR UPDATE")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 3, 1, checkInDate.Time, checkOutDate.Time, "pending", now, now))
	s.mock.ExpectRollback()

	rec, body := s.call(http.MethodPost, "/reservations/5/check_in", "", 2, model.RoleStaff)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Reservation must be confirmed before check-in", body["error"])
	s.Empty(s.events.events)
}

func (s *APISuite) TestConfirmPublishesEvent() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ? FOR UPDATE")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 3, 1, checkInDate.Time, checkOutDate.Time, "pending", now, now))
	s.mock.ExpectExec(q("UPDATE reservations SET status = ? WHERE id = ?")).WithArgs("confirmed", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	rec, body := s.call(http.MethodPost, "/reservations/5/confirm", "", 2, model.RoleStaff)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Reservation confirmed", body["status"])
	s.Require().Len(s.events.events, 1)
	s.Equal(queue.ReservationConfirmed, s.events.events[0].Type)
	s.Equal(uint64(3), s.events.events[0].GuestID)
}

func (s *APISuite) TestGuestSeesOnlyOwnReservation() {
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ?")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 9, 1, checkInDate.Time, checkOutDate.Time, "pending", now, now))

	rec, _ := s.call(http.MethodGet, "/reservations/5", "", 3, model.RoleGuest)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestCashPaymentCompletesImmediately() {
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ?")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 3, 1, checkInDate.Time, checkOutDate.Time, "confirmed", now, now))
	s.mock.ExpectExec(q("INSERT INTO payments")).
		WithArgs(5, 20000, "cash", "completed", nil).
		WillReturnResult(sqlmock.NewResult(8, 1))
	s.mock.ExpectQuery(q("WHERE p.id = ?")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(8, 5, 20000, "cash", "completed", nil, now))

	rec, body := s.call(http.MethodPost, "/payments",
		`{"reservation_id":5,"amount_cents":20000,"payment_method":"cash"}`, 3, model.RoleGuest)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Equal("completed", body["payment_status"])
	s.Require().Len(s.events.events, 1)
	s.Equal(queue.PaymentCompleted, s.events.events[0].Type)
}

func (s *APISuite) TestPaymentForOthersReservationForbidden() {
	s.mock.ExpectQuery(q("FROM reservations WHERE id = ?")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(resCols).AddRow(5, 9, 1, checkInDate.Time, checkOutDate.Time, "confirmed", now, now))

	rec, _ := s.call(http.MethodPost, "/payments",
		`{"reservation_id":5,"amount_cents":20000,"payment_method":"card"}`, 3, model.RoleGuest)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestPaymentRejectsZeroAmount() {
	rec, body := s.call(http.MethodPost, "/payments",
		`{"reservation_id":5,"amount_cents":0,"payment_method":"cash"}`, 3, model.RoleGuest)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Amount must be greater than zero.", fieldErrors(body)["amount_cents"])
}

func (s *APISuite) TestSaleBeyondStock() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "price_cents"}).AddRow(2, "Soda", 3, 250))
	s.mock.ExpectRollback()

	rec, body := s.call(http.MethodPost, "/transactions", `{"item_id":2,"quantity_sold":5}`, 2, model.RoleStaff)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.EqualValues(3, body["available"])
	s.Equal("Only 3 items are available in stock.", fieldErrors(body)["quantity_sold"])
}

func (s *APISuite) TestSaleNeedsPositiveQuantity() {
	rec, body := s.call(http.MethodPost, "/transactions", `{"item_id":2,"quantity_sold":0}`, 2, model.RoleStaff)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(fieldErrors(body), "quantity_sold")
}

func (s *APISuite) TestPOSLoginUnknownType() {
	rec, body := s.call(http.MethodPost, "/pos/login", `{"account_type":"casino","account_name":"a","password":"secret1"}`, 0, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Invalid account type", body["error"])
}

func (s *APISuite) TestReportsNeedCapability() {
	rec, _ := s.call(http.MethodGet, "/reports/revenue_report", "", 2, model.RoleStaff)
	s.Equal(http.StatusForbidden, rec.Code)

	rec, _ = s.call(http.MethodGet, "/reports/financial", "", 2, model.RoleManager)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestRevenueZeroWhenNoPayments() {
	s.mock.ExpectQuery(q("FROM payments WHERE payment_status = 'completed'")).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))

	rec, body := s.call(http.MethodGet, "/reports/revenue_report", "", 2, model.RoleManager)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.EqualValues(0, body["total_revenue_cents"])
}

func (s *APISuite) TestGuestCannotNotifyOthers() {
	rec, _ := s.call(http.MethodPost, "/notifications", `{"title":"hi","message":"there","user_id":9}`, 3, model.RoleGuest)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestUpdateUserRejectsUnknownRole() {
	rec, body := s.call(http.MethodPatch, "/users/4", `{"role":"root"}`, 1, model.RoleAdmin)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(`"root" is not a valid choice.`, fieldErrors(body)["role"])
}

func (s *APISuite) TestMalformedBody() {
	rec, body := s.call(http.MethodPost, "/rooms", `{"number":`, 1, model.RoleAdmin)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid body", body["error"])
}

func (s *APISuite) TestPatchItemKeepsLiveStock() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "price_cents", "created_at", "updated_at"}).
			AddRow(2, "Soda", 4, 250, now, now))
	s.mock.ExpectExec(q("UPDATE inventory_items SET name = ?, quantity = ?, price_cents = ?")).
		WithArgs("Cola", 4, 250, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	rec, body := s.call(http.MethodPatch, "/inventory/2", `{"name":"Cola"}`, 1, model.RoleAdmin)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Cola", body["name"])
	s.EqualValues(4, body["quantity"])
}

func (s *APISuite) TestItemQuantityBeyondColumnRange() {
	rec, body := s.call(http.MethodPost, "/inventory", `{"name":"Soda","quantity":5000000000,"price_cents":250}`, 1, model.RoleAdmin)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("Ensure this value is less than or equal to 4294967295.", fieldErrors(body)["quantity"])

	rec, _ = s.call(http.MethodPatch, "/inventory/2", `{"quantity":5000000000}`, 1, model.RoleAdmin)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestDeactivateRevokesRefreshTokens() {
	s.mock.ExpectQuery(q("FROM users WHERE id=?")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "ann", "ann@example.com", "hash", "staff", true, now, now))
	s.mock.ExpectExec(q("UPDATE users SET role=?, is_active=? WHERE id=?")).WithArgs("staff", false, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))

	rec, body := s.call(http.MethodPatch, "/users/4", `{"is_active":false}`, 1, model.RoleAdmin)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(false, body["is_active"])
}

func (s *APISuite) TestRefreshAccessUsesStoredRole() {
	s.mock.ExpectQuery(q("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs(utils.HashRefreshRaw("raw-refresh")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, time.Now().UTC().Add(time.Hour), nil))
	s.mock.ExpectQuery(q("FROM users WHERE id=?")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "ann", "ann@example.com", "hash", "guest", true, now, now))

	rec, body := s.call(http.MethodPost, "/users/refresh_access", `{"refresh_token":"raw-refresh"}`, 0, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	access := body["access"].(map[string]any)["token"].(string)
	id, err := utils.ParseAccessToken(secret, access)
	s.Require().NoError(err)
	s.Equal(model.RoleGuest, id.Role)
}

func (s *APISuite) TestRefreshAccessRefusesInactiveUser() {
	s.mock.ExpectQuery(q("FROM refresh_tokens WHERE token_hash=?")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(4, time.Now().UTC().Add(time.Hour), nil))
	s.mock.ExpectQuery(q("FROM users WHERE id=?")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "ann", "ann@example.com", "hash", "staff", false, now, now))

	rec, body := s.call(http.MethodPost, "/users/refresh_access", `{"refresh_token":"raw-refresh"}`, 0, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("invalid refresh", body["error"])
}
