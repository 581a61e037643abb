package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hotel-management/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func q(s string) string { return regexp.QuoteMeta(s) }

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1062}), ErrDuplicate)
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1452}), ErrInvalidReference)
	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestUserRepo_CreateDefaultsToGuest(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO users (username, email, password_hash, role)")).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg(), "guest").
		WillReturnResult(sqlmock.NewResult(7, 1))

	u := &model.User{Username: " alice ", Email: " Alice@Example.com "}
	err := NewUserRepo(db).Create(context.Background(), u, "s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, model.RoleGuest, u.Role)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
}

func TestUserRepo_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := NewUserRepo(db).Create(context.Background(),
		&model.User{Username: "bob", Email: "bob@example.com"}, "password1", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepo_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("FROM users WHERE id=?")).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepo(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRepo_RotateRevokesOld(t *testing.T) {
	db, mock := newMock(t)
	exp := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM refresh_tokens WHERE token_hash=? LIMIT 1 FOR UPDATE")).WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).AddRow(3, exp, nil))
	mock.ExpectExec(q("UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=?")).WithArgs("old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO refresh_tokens")).WithArgs(3, "new", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	uid, err := NewTokenRepo(db).Rotate(context.Background(), "old", "new", exp)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), uid)
}

func TestTokenRepo_RotateRejectsRevoked(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM refresh_tokens WHERE token_hash=?")).WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(3, time.Now().UTC().Add(time.Hour), time.Now().UTC()))
	mock.ExpectRollback()

	_, err := NewTokenRepo(db).Rotate(context.Background(), "old", "new", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomRepo_ListAvailableWithDates(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	ci := model.NewDate(2030, 1, 10)
	co := model.NewDate(2030, 1, 12)
	mock.ExpectQuery(q("FROM rooms WHERE is_available = 1 AND NOT EXISTS")).
		WithArgs("pending", "confirmed", "checked_in", co.Time, ci.Time).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "capacity", "price_per_night_cents", "description", "is_available", "created_at", "updated_at"}).
			AddRow(1, "101", 2, 12000, "sea view", true, now, now))

	rooms, err := NewRoomRepo(db).ListAvailable(context.Background(), &ci, &co)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, int64(12000), rooms[0].PricePerNightCents)
}

func TestHallRepo_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE halls SET")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewHallRepo(db).Update(context.Background(), &model.Hall{ID: 5, Name: "Ballroom", Capacity: 100})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmployeeRepo_CreateUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO employees")).
		WithArgs(42, "Chef", 300000, sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1452})

	err := NewEmployeeRepo(db).Create(context.Background(), &model.Employee{
		UserID: 42, Position: "Chef", SalaryCents: 300000, HireDate: model.NewDate(2024, 3, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
}
