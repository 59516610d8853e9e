package database

// DataStore defines the unified interface for all data operations needed by
// the services. It is composed of smaller, domain-specific interfaces so that
// consumers can depend on just the part they use.
type DataStore interface {
	BoardRepository
	GroupRepository
	ColumnRepository
	ItemRepository
}
