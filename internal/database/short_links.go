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
	"github.com/tomtom215/foodgram/internal/shortlink"
)

const shortLinkColumns = `id, full_url, token, requests_count, is_active, created_at`

// resolveAttempts bounds retries of the counter increment when concurrent
// redirects hit the same row.
const resolveAttempts = 5

// errLinkExists stops the issue loop when another writer stored the same
// full URL first.
var errLinkExists = errors.New("full url already shortened")

// CreateShortLink stores fullURL behind a new token. The call is idempotent
// by URL: an existing row is returned with created=false.
func (db *DB) CreateShortLink(ctx context.Context, fullURL string) (link *models.ShortLink, created bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	link, err = db.shortLinkBy(ctx, "full_url", fullURL)
	if err == nil {
		return link, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	var stored models.ShortLink
	_, err = db.linkTokens.Issue(ctx, func(ctx context.Context, token string) (err error) {
		defer observe("insert", "short_links", time.Now(), &err)

		err = db.withTx(ctx, func(tx *sql.Tx) error {
			dup, err := exists(ctx, tx, `SELECT 1 FROM short_links WHERE full_url = ?`, fullURL)
			if err != nil {
				return fmt.Errorf("failed to check full url: %w", err)
			}
			if dup {
				return errLinkExists
			}

			taken, err := exists(ctx, tx, `SELECT 1 FROM short_links WHERE token = ?`, token)
			if err != nil {
				return fmt.Errorf("failed to check token: %w", err)
			}
			if taken {
				return shortlink.ErrCollision
			}

			return tx.QueryRowContext(ctx,
				`INSERT INTO short_links (full_url, token) VALUES (?, ?) RETURNING `+shortLinkColumns,
				fullURL, token,
			).Scan(&stored.ID, &stored.FullURL, &stored.Token, &stored.RequestsCount, &stored.IsActive, &stored.CreatedAt)
		})
		switch {
		case err == nil, errors.Is(err, errLinkExists), errors.Is(err, shortlink.ErrCollision):
			return err
		case isUniqueViolationOn(err, "full_url"):
			return errLinkExists
		case isUniqueViolation(err), isTransactionConflict(err):
			return fmt.Errorf("%w: %v", shortlink.ErrCollision, err)
		default:
			return fmt.Errorf("failed to create short link: %w", err)
		}
	})
	if errors.Is(err, errLinkExists) {
		link, err = db.shortLinkBy(ctx, "full_url", fullURL)
		return link, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return &stored, true, nil
}

// GetShortLink returns the row for token without counting a request.
func (db *DB) GetShortLink(ctx context.Context, token string) (*models.ShortLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.shortLinkBy(ctx, "token", token)
}

func (db *DB) shortLinkBy(ctx context.Context, column, value string) (link *models.ShortLink, err error) {
	defer observe("select", "short_links", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, `SELECT `+shortLinkColumns+` FROM short_links WHERE `+column+` = ?`, value)
	return scanShortLink(row)
}

// ResolveShortLink returns the active row for token and increments its
// requests_count. Unknown or deactivated tokens return ErrNotFound.
func (db *DB) ResolveShortLink(ctx context.Context, token string) (link *models.ShortLink, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "short_links", time.Now(), &err)

	for attempt := 1; ; attempt++ {
		row := db.conn.QueryRowContext(ctx, `
			UPDATE short_links SET requests_count = requests_count + 1
			WHERE token = ? AND is_active
			RETURNING `+shortLinkColumns, token)
		link, err = scanShortLink(row)
		if err == nil || !isTransactionConflict(err) || attempt == resolveAttempts {
			return link, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
}

// ListShortLinks returns a page of links, newest first.
func (db *DB) ListShortLinks(ctx context.Context, limit, offset int) (links []models.ShortLink, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("select", "short_links", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+shortLinkColumns+` FROM short_links ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query short links: %w", err)
	}
	defer rows.Close()

	links = []models.ShortLink{}
	for rows.Next() {
		l, err := scanShortLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

// CountShortLinks returns the number of stored links.
func (db *DB) CountShortLinks(ctx context.Context) (count int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("count", "short_links", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM short_links`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count short links: %w", err)
	}
	return count, nil
}

// DeactivateShortLink stops token from resolving. The row and its token
// stay reserved.
func (db *DB) DeactivateShortLink(ctx context.Context, token string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update", "short_links", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `UPDATE short_links SET is_active = false WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to deactivate short link: %w", err)
	}
	return requireAffected(res)
}

func scanShortLink(row rowScanner) (*models.ShortLink, error) {
	var l models.ShortLink
	err := row.Scan(&l.ID, &l.FullURL, &l.Token, &l.RequestsCount, &l.IsActive, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan short link: %w", err)
	}
	return &l, nil
}
