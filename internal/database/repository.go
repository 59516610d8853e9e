package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*BoardRepo
	*GroupRepo
	*ColumnRepo
	*ItemRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		BoardRepo:  &BoardRepo{db: db},
		GroupRepo:  &GroupRepo{db: db},
		ColumnRepo: &ColumnRepo{db: db},
		ItemRepo:   &ItemRepo{db: db},
	}
}

var _ DataStore = (*Repository)(nil)
