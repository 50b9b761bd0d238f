// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

const userColumns = `id, email, username, first_name, last_name, password_hash, avatar, role, created_at`

// CreateUser inserts user and fills in ID and CreatedAt. Duplicate email or
// username returns a *ConflictError naming the field.
func (db *DB) CreateUser(ctx context.Context, user *models.User) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("insert", "users", time.Now(), &err)

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := exists(ctx, tx, `SELECT 1 FROM users WHERE email = ?`, user.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return &ConflictError{Field: "email"}
		}
		taken, err = exists(ctx, tx, `SELECT 1 FROM users WHERE username = ?`, user.Username)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return &ConflictError{Field: "username"}
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO users (email, username, first_name, last_name, password_hash, avatar, role)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id, created_at`,
			user.Email, user.Username, user.FirstName, user.LastName,
			user.PasswordHash, nullString(user.Avatar), user.Role,
		).Scan(&user.ID, &user.CreatedAt)
	})
	if err != nil {
		return classifyUserError(err)
	}
	return nil
}

// classifyUserError maps constraint failures of concurrent signups.
func classifyUserError(err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		return err
	case isUniqueViolationOn(err, "email"):
		return &ConflictError{Field: "email"}
	case isUniqueViolationOn(err, "username"):
		return &ConflictError{Field: "username"}
	case isUniqueViolation(err), isTransactionConflict(err):
		return fmt.Errorf("failed to create user: %w", ErrAlreadyExists)
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

// GetUserByID returns the user or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (user *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user or ErrNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns a page of users ordered by username.
func (db *DB) ListUsers(ctx context.Context, limit, offset int) (users []models.User, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "users", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users = []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of users.
func (db *DB) CountUsers(ctx context.Context) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("count", "users", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdateUserPassword replaces the stored bcrypt hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "users", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(res)
}

// UpdateUserAvatar sets the avatar; nil clears it.
func (db *DB) UpdateUserAvatar(ctx context.Context, id int64, avatar *string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "users", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `UPDATE users SET avatar = ? WHERE id = ?`, nullString(avatar), id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return requireAffected(res)
}

// UpdateUserRole changes a user's role (foodgramctl create-admin promotes
// existing accounts).
func (db *DB) UpdateUserRole(ctx context.Context, id int64, role string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "users", time.Now(), &err)

	if !models.IsValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	res, err := db.conn.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return requireAffected(res)
}

// DeleteUser removes the user with their recipes, favorites, cart and
// subscriptions in both directions.
func (db *DB) DeleteUser(ctx context.Context, id int64) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete", "users", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		authored := `SELECT id FROM recipes WHERE author_id = ?`
		steps := []struct {
			query string
			args  []interface{}
		}{
			{`DELETE FROM recipe_tags WHERE recipe_id IN (` + authored + `)`, []interface{}{id}},
			{`DELETE FROM recipe_ingredients WHERE recipe_id IN (` + authored + `)`, []interface{}{id}},
			{`DELETE FROM favorites WHERE recipe_id IN (` + authored + `) OR user_id = ?`, []interface{}{id, id}},
			{`DELETE FROM shopping_cart WHERE recipe_id IN (` + authored + `) OR user_id = ?`, []interface{}{id, id}},
			{`DELETE FROM subscriptions WHERE subscriber_id = ? OR author_id = ?`, []interface{}{id, id}},
			{`DELETE FROM recipes WHERE author_id = ?`, []interface{}{id}},
			{`DELETE FROM users WHERE id = ?`, []interface{}{id}},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &avatar, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	return &u, nil
}

// requireAffected maps zero affected rows to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
