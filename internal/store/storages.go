package store

import (
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/validators"
)

// Storages groups the repositories handed to the service layer.
type Storages struct {
	IdentityRepository IdentityRepository
	ProductRepository  ProductRepository
}

// NewStorages builds every repository over db.
func NewStorages(db *DB, validator validators.Validator, log *logger.Logger) *Storages {
	return &Storages{
		IdentityRepository: NewIdentityRepository(db, validator, log),
		ProductRepository:  NewProductRepository(db, log),
	}
}
