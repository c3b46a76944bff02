// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements [models.Repository] over one SQLite table.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/atlas/internal/models"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanCookie(s scanner) (*models.StoredCookie, error) {
	var (
		c         models.StoredCookie
		id        string
		expiresAt sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)

	err := s.Scan(&id, &c.Host, &c.Name, &c.Value, &c.Domain, &c.Path, &expiresAt, &c.Secure, &c.HttpOnly,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.SetID(id)
	c.SetCreatedAt(createdAt)
	c.SetUpdatedAt(updatedAt)
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}

	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// expectAffected fails with the formatted message when result touched no rows.
func expectAffected(result sql.Result, format string, args ...any) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf(format, args...)
	}
	return nil
}
