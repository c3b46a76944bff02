// package models defines the data model for the atlas sports client
package models

import (
	"time"
)

// Model is a row kept in the local database.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // Checked before every insert or update
}

// Repository is the CRUD surface of a table of T.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error) // Supported criteria are up to each repository
}
