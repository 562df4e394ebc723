package storage

import "airbnb-features/models"

// TableReader is the interface any input source must satisfy.
type TableReader interface {
	ReadTable(name string) (*models.Table, error)
}

// TableWriter is the interface any artifact backend must satisfy.
type TableWriter interface {
	WriteTable(name string, t *models.Table) error
	Close() error
}
