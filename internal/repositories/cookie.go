package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
)

const cookieColumns = `id, host, name, value, domain, path, expires_at, secure, http_only, created_at, updated_at`

// CookieRepository implements [models.Repository] for [models.StoredCookie] persistence.
type CookieRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.StoredCookie] = (*CookieRepository)(nil)

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// Create inserts a new cookie with a generated ID
func (r *CookieRepository) Create(c *models.StoredCookie) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	c.SetID(shared.GenerateID())

	query := `INSERT INTO cookies (` + cookieColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		c.ID(), c.Host, c.Name, c.Value, c.Domain, c.Path, nullTime(c.ExpiresAt), c.Secure, c.HttpOnly,
		c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cookie: %w", err)
	}

	return nil
}

// Upsert inserts c or replaces the value and attributes of the cookie with the same host, domain, path and name.
//
// The ID of an existing row is kept and copied onto c.
func (r *CookieRepository) Upsert(c *models.StoredCookie) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	c.SetUpdatedAt(now)

	query := `
		INSERT INTO cookies (` + cookieColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (host, domain, path, name) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			http_only = excluded.http_only,
			updated_at = excluded.updated_at
		RETURNING id
	`

	var id string
	err := r.db.QueryRow(query,
		shared.GenerateID(), c.Host, c.Name, c.Value, c.Domain, c.Path, nullTime(c.ExpiresAt), c.Secure, c.HttpOnly,
		c.CreatedAt(), now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert cookie: %w", err)
	}

	c.SetID(id)
	return nil
}

// Get retrieves a cookie by ID
func (r *CookieRepository) Get(id string) (*models.StoredCookie, error) {
	row := r.db.QueryRow(`SELECT `+cookieColumns+` FROM cookies WHERE id = ?`, id)

	c, err := scanCookie(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cookie not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cookie: %w", err)
	}

	return c, nil
}

// Update modifies the value and attributes of an existing cookie
func (r *CookieRepository) Update(c *models.StoredCookie) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	c.SetUpdatedAt(now)

	query := `
		UPDATE cookies
		SET value = ?, expires_at = ?, secure = ?, http_only = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, c.Value, nullTime(c.ExpiresAt), c.Secure, c.HttpOnly, now, c.ID())
	if err != nil {
		return fmt.Errorf("failed to update cookie: %w", err)
	}

	return expectAffected(result, "cookie not found: %s", c.ID())
}

// Delete removes a cookie by ID
func (r *CookieRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM cookies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}

	return expectAffected(result, "cookie not found: %s", id)
}

// DeleteMatching removes the row with the same host, domain, path and name as c, if any.
func (r *CookieRepository) DeleteMatching(c *models.StoredCookie) error {
	_, err := r.db.Exec(
		`DELETE FROM cookies WHERE host = ? AND domain = ? AND path = ? AND name = ?`,
		c.Host, c.Domain, c.Path, c.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}
	return nil
}

// DeleteByName removes every cookie called name and reports how many were removed
func (r *CookieRepository) DeleteByName(name string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM cookies WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cookies: %w", err)
	}

	return result.RowsAffected()
}

// Clear removes every stored cookie
func (r *CookieRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

// List retrieves cookies matching the given criteria.
//
// Supported criteria: "host" and "name" (string), "unexpired" (bool, excludes cookies expired as of now).
func (r *CookieRepository) List(criteria map[string]any) ([]*models.StoredCookie, error) {
	query := `SELECT ` + cookieColumns + ` FROM cookies WHERE 1 = 1`
	args := []any{}

	if host, ok := criteria["host"].(string); ok && host != "" {
		query += " AND host = ?"
		args = append(args, host)
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	if unexpired, ok := criteria["unexpired"].(bool); ok && unexpired {
		query += " AND (expires_at IS NULL OR expires_at > ?)"
		args = append(args, time.Now().UTC())
	}

	query += " ORDER BY created_at ASC, name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*models.StoredCookie
	for rows.Next() {
		c, err := scanCookie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		cookies = append(cookies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cookies, nil
}

// ListUnexpired is shorthand for List with the "unexpired" criterion.
func (r *CookieRepository) ListUnexpired() ([]*models.StoredCookie, error) {
	return r.List(map[string]any{"unexpired": true})
}
