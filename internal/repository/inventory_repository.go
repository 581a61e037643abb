package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/database"
	"github.com/iliyamo/hotel-management/internal/model"
)

const itemColumns = "id, name, quantity, price_cents, created_at, updated_at"

// InventoryRepo provides CRUD for stock items.  Every write to quantity
// happens under the item's row lock: sales in TransactionRepo.Record,
// edits in Edit.
type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func scanItem(s scanner) (*model.InventoryItem, error) {
	var it model.InventoryItem
	if err := s.Scan(&it.ID, &it.Name, &it.Quantity, &it.PriceCents, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *InventoryRepo) Create(ctx context.Context, it *model.InventoryItem) error {
	it.Name = strings.TrimSpace(it.Name)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO inventory_items (name, quantity, price_cents) VALUES (?, ?, ?)",
		it.Name, it.Quantity, it.PriceCents))
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*it = *got
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (*model.InventoryItem, error) {
	return scanItem(r.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM inventory_items WHERE id = ?", id))
}

func (r *InventoryRepo) List(ctx context.Context) ([]*model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM inventory_items ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Edit locks the item, lets edit change it and saves the result in the
// same transaction, so a sale committing meanwhile is never overwritten.
// An error from edit aborts unchanged.
func (r *InventoryRepo) Edit(ctx context.Context, id uint64, edit func(*model.InventoryItem) error) (*model.InventoryItem, error) {
	var out *model.InventoryItem
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		it, err := scanItem(tx.QueryRowContext(ctx,
			"SELECT "+itemColumns+" FROM inventory_items WHERE id = ? FOR UPDATE", id))
		if err != nil {
			return err
		}
		if err := edit(it); err != nil {
			return err
		}
		it.Name = strings.TrimSpace(it.Name)
		if _, err := tx.ExecContext(ctx,
			"UPDATE inventory_items SET name = ?, quantity = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			it.Name, it.Quantity, it.PriceCents, it.ID); err != nil {
			return translate(err)
		}
		out = it
		return nil
	})
	return out, err
}

// Delete removes the item; its transactions cascade.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = ?", id))
}
