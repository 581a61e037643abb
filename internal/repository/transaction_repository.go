package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/model"
)

const transactionSelect = `SELECT t.id, t.item_id, i.name, t.user_id, t.account_type, t.account_id,
	t.quantity_sold, t.total_price_cents, t.date
	FROM transactions t JOIN inventory_items i ON i.id = t.item_id`

// TransactionRepo records inventory sales.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func scanTransaction(s scanner) (*model.Transaction, error) {
	var (
		t     model.Transaction
		kind  sql.NullString
		accID sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.ItemID, &t.ItemName, &t.UserID, &kind, &accID, &t.QuantitySold, &t.TotalPriceCents, &t.Date); err != nil {
		return nil, translate(err)
	}
	if kind.Valid {
		k := model.AccountKind(kind.String)
		t.AccountType = &k
	}
	if accID.Valid {
		id := uint64(accID.Int64)
		t.AccountID = &id
	}
	return &t, nil
}

// Record performs a sale atomically: the item row is locked, stock is
// checked and decremented, the total is priced from the locked row and,
// when an account is named, credited to it.  Any failure rolls every step
// back.  On success t carries its id, item name, total and date.
func (r *TransactionRepo) Record(ctx context.Context, t *model.Transaction) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var item model.InventoryItem
		err := tx.QueryRowContext(ctx,
			"SELECT id, name, quantity, price_cents FROM inventory_items WHERE id = ? FOR UPDATE", t.ItemID).
			Scan(&item.ID, &item.Name, &item.Quantity, &item.PriceCents)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Invalid("item_id", "Invalid pk - object does not exist.")
		}
		if err != nil {
			return err
		}

		total, err := item.Sell(t.QuantitySold)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE inventory_items SET quantity = ? WHERE id = ?", item.Quantity, item.ID); err != nil {
			return err
		}

		if t.AccountID != nil {
			var kind model.AccountKind
			err := tx.QueryRowContext(ctx,
				"SELECT kind FROM pos_accounts WHERE id = ? FOR UPDATE", *t.AccountID).Scan(&kind)
			if errors.Is(err, sql.ErrNoRows) {
				return model.Invalid("account_id", "Invalid pk - object does not exist.")
			}
			if err != nil {
				return err
			}
			if t.AccountType != nil && *t.AccountType != kind {
				return model.Invalid("account_id", "Account does not belong to the given account_type.")
			}
			t.AccountType = &kind
			if _, err := tx.ExecContext(ctx,
				"UPDATE pos_accounts SET balance_cents = balance_cents + ? WHERE id = ?", total, *t.AccountID); err != nil {
				return err
			}
		}

		t.TotalPriceCents = total
		t.ItemName = item.Name
		t.Date = time.Now().UTC()
		id, err := insertedID(tx.ExecContext(ctx,
			`INSERT INTO transactions (item_id, user_id, account_type, account_id, quantity_sold, total_price_cents, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ItemID, t.UserID, t.AccountType, t.AccountID, t.QuantitySold, t.TotalPriceCents, t.Date))
		if err != nil {
			return err
		}
		t.ID = id
		return nil
	})
}

// GetByID fetches one sale.  A non-nil userID restricts the lookup to
// sales recorded by that user.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64, userID *uint64) (*model.Transaction, error) {
	q := transactionSelect + " WHERE t.id = ?"
	args := []any{id}
	if userID != nil {
		q += " AND t.user_id = ?"
		args = append(args, *userID)
	}
	return scanTransaction(r.db.QueryRowContext(ctx, q, args...))
}

// List returns sales newest first, scoped like GetByID.
func (r *TransactionRepo) List(ctx context.Context, userID *uint64) ([]*model.Transaction, error) {
	q := transactionSelect
	var args []any
	if userID != nil {
		q += " WHERE t.user_id = ?"
		args = append(args, *userID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY t.date DESC, t.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes the record only; stock and balances stay as they are.
func (r *TransactionRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id))
}
