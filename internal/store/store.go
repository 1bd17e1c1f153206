// Package store provides the process-wide in-memory collection of analyzed strings
package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/stacklok/string-analyzer-server/internal/analyzer"
)

// ErrAlreadyExists is returned when inserting a record whose id is already stored
var ErrAlreadyExists = errors.New("record already exists")

// Store is an exclusive-key mapping from content hash to record.
// A single RWMutex guards every operation, so check-then-insert and
// check-then-delete never interleave with a conflicting writer.
type Store struct {
	mu      sync.RWMutex // Protects records, order
	records map[string]*analyzer.StringRecord
	order   []string
}

// New creates an empty Store
func New() *Store {
	return &Store{
		records: make(map[string]*analyzer.StringRecord),
	}
}

// Insert adds record if no record with the same id exists.
// It never overwrites: a duplicate id returns ErrAlreadyExists.
func (s *Store) Insert(record *analyzer.StringRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return ErrAlreadyExists
	}

	s.records[record.ID] = record
	s.order = append(s.order, record.ID)
	return nil
}

// LookupByValue returns the record stored for value, if any
func (s *Store) LookupByValue(value string) (*analyzer.StringRecord, bool) {
	id := analyzer.ContentHash(value)

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok
}

// DeleteByValue removes the record stored for value and reports whether one was removed
func (s *Store) DeleteByValue(value string) bool {
	id := analyzer.ContentHash(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}

	delete(s.records, id)
	if idx := slices.Index(s.order, id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	return true
}

// List returns a snapshot of all records in insertion order
func (s *Store) List() []*analyzer.StringRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*analyzer.StringRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	return records
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
