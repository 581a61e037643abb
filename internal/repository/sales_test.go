package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-management/internal/model"
)

func lockItemRows(qty, price int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "quantity", "price_cents"}).AddRow(1, "Soda", qty, price)
}

func TestTransactionRepo_RecordDeductsStock(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(1).
		WillReturnRows(lockItemRows(10, 500))
	mock.ExpectExec(q("UPDATE inventory_items SET quantity = ? WHERE id = ?")).WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO transactions")).
		WithArgs(1, 4, nil, nil, 3, 1500, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	tr := &model.Transaction{ItemID: 1, UserID: 4, QuantitySold: 3}
	require.NoError(t, NewTransactionRepo(db).Record(context.Background(), tr))
	assert.Equal(t, uint64(11), tr.ID)
	assert.Equal(t, int64(1500), tr.TotalPriceCents)
	assert.Equal(t, "Soda", tr.ItemName)
}

func TestTransactionRepo_RecordInsufficientStockRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(1).
		WillReturnRows(lockItemRows(2, 500))
	mock.ExpectRollback()

	err := NewTransactionRepo(db).Record(context.Background(), &model.Transaction{ItemID: 1, UserID: 4, QuantitySold: 3})
	require.ErrorIs(t, err, model.ErrInsufficientStock)
	var se *model.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(2), se.Available)
}

func TestTransactionRepo_RecordCreditsAccount(t *testing.T) {
	db, mock := newMock(t)
	accID := uint64(2)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WillReturnRows(lockItemRows(5, 250))
	mock.ExpectExec(q("UPDATE inventory_items SET quantity")).WithArgs(3, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT kind FROM pos_accounts WHERE id = ? FOR UPDATE")).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"kind"}).AddRow("bar"))
	mock.ExpectExec(q("UPDATE pos_accounts SET balance_cents = balance_cents + ?")).WithArgs(500, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO transactions")).
		WithArgs(1, 4, "bar", 2, 2, 500, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	tr := &model.Transaction{ItemID: 1, UserID: 4, QuantitySold: 2, AccountID: &accID}
	require.NoError(t, NewTransactionRepo(db).Record(context.Background(), tr))
	require.NotNil(t, tr.AccountType)
	assert.Equal(t, model.AccountBar, *tr.AccountType)
}

func TestTransactionRepo_RecordAccountKindMismatch(t *testing.T) {
	db, mock := newMock(t)
	accID := uint64(2)
	kind := model.AccountRestaurant
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WillReturnRows(lockItemRows(5, 250))
	mock.ExpectExec(q("UPDATE inventory_items SET quantity")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT kind FROM pos_accounts")).
		WillReturnRows(sqlmock.NewRows([]string{"kind"}).AddRow("bar"))
	mock.ExpectRollback()

	err := NewTransactionRepo(db).Record(context.Background(),
		&model.Transaction{ItemID: 1, UserID: 4, QuantitySold: 1, AccountID: &accID, AccountType: &kind})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "account_id")
}

func TestTransactionRepo_ListScopedToUser(t *testing.T) {
	db, mock := newMock(t)
	uid := uint64(4)
	mock.ExpectQuery(q("WHERE t.user_id = ?")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "name", "user_id", "account_type", "account_id", "quantity_sold", "total_price_cents", "date"}).
			AddRow(1, 1, "Soda", 4, nil, nil, 3, 1500, testNow))

	list, err := NewTransactionRepo(db).List(context.Background(), &uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].AccountType)
	assert.Nil(t, list[0].AccountID)
}

func TestAccountRepo_SalesTotal(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("FROM transactions WHERE account_type = ?")).WithArgs("restaurant").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))

	total, err := NewAccountRepo(db).SalesTotal(context.Background(), model.AccountRestaurant)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func itemRow(qty int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "quantity", "price_cents", "created_at", "updated_at"}).
		AddRow(1, "Soda", qty, 250, testNow, testNow)
}

func TestInventoryRepo_EditKeepsLockedStock(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(1).
		WillReturnRows(itemRow(6))
	mock.ExpectExec(q("UPDATE inventory_items SET name = ?, quantity = ?, price_cents = ?")).
		WithArgs("Cola", 6, 250, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	it, err := NewInventoryRepo(db).Edit(context.Background(), 1, func(it *model.InventoryItem) error {
		it.Name = " Cola "
		return it.Validate()
	})
	require.NoError(t, err)
	assert.Equal(t, "Cola", it.Name)
	assert.Equal(t, int64(6), it.Quantity)
}

func TestInventoryRepo_EditRejectedRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM inventory_items WHERE id = ? FOR UPDATE")).WithArgs(1).
		WillReturnRows(itemRow(6))
	mock.ExpectRollback()

	_, err := NewInventoryRepo(db).Edit(context.Background(), 1, func(it *model.InventoryItem) error {
		it.Quantity = -1
		return it.Validate()
	})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "quantity")
}
