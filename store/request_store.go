// Package store holds the persistence boundaries: the shared maintenance
// request collection and the customer profile store. The request collection
// is read in full and written in full on every mutation; there is no partial
// update protocol.
package store

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/kafaa-plus/kafaa-maintenance-api/models"
)

// ErrRequestNotFound is returned by UpdateOne when no request matches the id.
var ErrRequestNotFound = errors.New("maintenance request not found")

// RequestStore is the persistence boundary for the shared request
// collection. LoadAll returns the collection newest-first; SaveAll replaces
// it wholesale in that order; Update runs one load-mutate-save cycle under
// the store's writer lock.
type RequestStore interface {
	LoadAll() ([]models.MaintenanceRequest, error)
	SaveAll(reqs []models.MaintenanceRequest) error
	Update(mutate func(all []models.MaintenanceRequest) ([]models.MaintenanceRequest, error)) error
}

// GormRequestStore persists the collection in a single table, with an
// explicit position column preserving newest-first order. The design assumes
// a single logical writer: mu serializes every load-mutate-save cycle, so
// concurrent sessions cannot interleave partial rewrites.
type GormRequestStore struct {
	db *gorm.DB
	mu sync.Mutex
}

var requestStoreInstance RequestStore

// InitRequestStore initializes the package request store around db.
func InitRequestStore(db *gorm.DB) RequestStore {
	requestStoreInstance = &GormRequestStore{db: db}
	return requestStoreInstance
}

// GetRequestStore returns the initialized request store instance
func GetRequestStore() RequestStore {
	return requestStoreInstance
}

// SetRequestStore sets the request store instance (primarily for testing)
func SetRequestStore(s RequestStore) {
	requestStoreInstance = s
}

// LoadAll reads the full collection, newest-first.
func (s *GormRequestStore) LoadAll() ([]models.MaintenanceRequest, error) {
	var reqs []models.MaintenanceRequest
	if err := s.db.Order("position ASC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}
	return reqs, nil
}

// SaveAll replaces the stored collection with reqs, stamping each record's
// position from its slot in the slice.
func (s *GormRequestStore) SaveAll(reqs []models.MaintenanceRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.MaintenanceRequest{}).Error; err != nil {
			return fmt.Errorf("failed to clear requests: %w", err)
		}
		if len(reqs) == 0 {
			return nil
		}
		for i := range reqs {
			reqs[i].Position = i
		}
		if err := tx.Create(&reqs).Error; err != nil {
			return fmt.Errorf("failed to write requests: %w", err)
		}
		return nil
	})
}

// Update runs one load-mutate-save cycle under the writer lock. The mutate
// function receives the full collection and returns the replacement; an
// error from it aborts the cycle without writing.
func (s *GormRequestStore) Update(mutate func(all []models.MaintenanceRequest) ([]models.MaintenanceRequest, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.LoadAll()
	if err != nil {
		return err
	}
	next, err := mutate(all)
	if err != nil {
		return err
	}
	return s.SaveAll(next)
}

// UpdateOne applies mutate to the request with the given id inside a single
// Update cycle, leaving every other record and the collection order intact.
func UpdateOne(s RequestStore, id string, mutate func(req models.MaintenanceRequest) (models.MaintenanceRequest, error)) (models.MaintenanceRequest, error) {
	var updated models.MaintenanceRequest
	err := s.Update(func(all []models.MaintenanceRequest) ([]models.MaintenanceRequest, error) {
		for i, r := range all {
			if r.ID != id {
				continue
			}
			next, err := mutate(r)
			if err != nil {
				return nil, err
			}
			all[i] = next
			updated = next
			return all, nil
		}
		return nil, ErrRequestNotFound
	})
	return updated, err
}
