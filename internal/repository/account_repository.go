package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/utils"
)

const accountColumns = "id, kind, account_name, balance_cents, password_hash, created_at"

// AccountRepo stores bar and restaurant tills.  Every method is scoped to
// one kind so a bar id never resolves under the restaurant routes.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

func scanAccount(s scanner) (*model.Account, error) {
	var a model.Account
	if err := s.Scan(&a.ID, &a.Kind, &a.AccountName, &a.BalanceCents, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Create hashes password and inserts the account with a zero balance.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	a.AccountName = strings.TrimSpace(a.AccountName)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO pos_accounts (kind, account_name, password_hash) VALUES (?, ?, ?)",
		string(a.Kind), a.AccountName, hash))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, a.Kind, id)
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, kind model.AccountKind, id uint64) (*model.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM pos_accounts WHERE kind = ? AND id = ?", string(kind), id))
}

func (r *AccountRepo) GetByName(ctx context.Context, kind model.AccountKind, name string) (*model.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM pos_accounts WHERE kind = ? AND account_name = ?",
		string(kind), strings.TrimSpace(name)))
}

func (r *AccountRepo) List(ctx context.Context, kind model.AccountKind) ([]*model.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM pos_accounts WHERE kind = ? ORDER BY id", string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update renames the account and, when password is non-empty, replaces
// its secret.  The balance is never written here.
func (r *AccountRepo) Update(ctx context.Context, a *model.Account, password string, cost int) error {
	a.AccountName = strings.TrimSpace(a.AccountName)
	if password == "" {
		return affected(r.db.ExecContext(ctx,
			"UPDATE pos_accounts SET account_name = ? WHERE kind = ? AND id = ?",
			a.AccountName, string(a.Kind), a.ID))
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	return affected(r.db.ExecContext(ctx,
		"UPDATE pos_accounts SET account_name = ?, password_hash = ? WHERE kind = ? AND id = ?",
		a.AccountName, hash, string(a.Kind), a.ID))
}

func (r *AccountRepo) Delete(ctx context.Context, kind model.AccountKind, id uint64) error {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM pos_accounts WHERE kind = ? AND id = ?", string(kind), id))
}

// SalesTotal sums every transaction rung up under kind.
func (r *AccountRepo) SalesTotal(ctx context.Context, kind model.AccountKind) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_price_cents), 0) FROM transactions WHERE account_type = ?",
		string(kind)).Scan(&total)
	return total, err
}

// Authenticate returns the account when password matches its hash.  Any
// mismatch, including an unknown name, is ErrNotFound.
func (r *AccountRepo) Authenticate(ctx context.Context, kind model.AccountKind, name, password string) (*model.Account, error) {
	a, err := r.GetByName(ctx, kind, name)
	if errors.Is(err, ErrNotFound) {
		utils.VerifyPassword("", password)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return nil, ErrNotFound
	}
	return a, nil
}
