package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/utils"
)

const userColumns = "id, username, email, password_hash, role, is_active, created_at, updated_at"

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create hashes password and inserts the user, filling u.ID.  A taken
// username or email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Email = model.NormalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Role == "" {
		u.Role = model.RoleGuest
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	id, err := insertedID(r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		u.Username, u.Email, hash, string(u.Role)))
	if err != nil {
		return err
	}
	u.ID = id
	u.PasswordHash = hash
	u.IsActive = true
	return nil
}

// Taken reports which of username/email already belong to a user, so
// sign-up can name the offending field.
func (r *UserRepo) Taken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(username = ?),0) > 0, COALESCE(SUM(email = ?),0) > 0 FROM users WHERE username = ? OR email = ?",
		username, model.NormalizeEmail(email), username, model.NormalizeEmail(email)).
		Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, err
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateAccess changes role and active flag.
func (r *UserRepo) UpdateAccess(ctx context.Context, id uint64, role model.Role, active bool) error {
	return affected(r.db.ExecContext(ctx,
		"UPDATE users SET role=?, is_active=? WHERE id=?", string(role), active, id))
}

// Delete removes the user; dependent rows cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id))
}
