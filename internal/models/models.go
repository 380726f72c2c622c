package models

import "time"

// Model is implemented by entities stored with their own row ID and timestamps.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Repository is the CRUD surface shared by the row-per-entity repositories.
//
// Songs and rankings are written together by a single transactional repository
// and do not implement it.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
