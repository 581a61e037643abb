package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-management/internal/model"
)

const keyCardColumns = "id, reservation_id, key_card_code, issued_at"

// KeyCardRepo issues and looks up door credentials.  There is no update:
// a code is fixed once issued.
type KeyCardRepo struct {
	db *sql.DB
}

func NewKeyCardRepo(db *sql.DB) *KeyCardRepo { return &KeyCardRepo{db: db} }

func scanKeyCard(s scanner) (*model.KeyCard, error) {
	var k model.KeyCard
	if err := s.Scan(&k.ID, &k.ReservationID, &k.KeyCardCode, &k.IssuedAt); err != nil {
		return nil, translate(err)
	}
	return &k, nil
}

// Issue creates a card with a fresh code for reservationID.  A reservation
// that already holds a card yields ErrDuplicate; an unknown one yields
// ErrInvalidReference.
func (r *KeyCardRepo) Issue(ctx context.Context, reservationID uint64) (*model.KeyCard, error) {
	k := model.NewKeyCard(reservationID)
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO key_cards (reservation_id, key_card_code) VALUES (?, ?)",
		k.ReservationID, k.KeyCardCode))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *KeyCardRepo) GetByID(ctx context.Context, id uint64) (*model.KeyCard, error) {
	return scanKeyCard(r.db.QueryRowContext(ctx, "SELECT "+keyCardColumns+" FROM key_cards WHERE id = ?", id))
}

func (r *KeyCardRepo) List(ctx context.Context) ([]*model.KeyCard, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+keyCardColumns+" FROM key_cards ORDER BY issued_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.KeyCard{}
	for rows.Next() {
		k, err := scanKeyCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *KeyCardRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM key_cards WHERE id = ?", id))
}
