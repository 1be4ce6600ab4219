package memory

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"repohub/internal/model"
)

// Store keeps repositories in insertion order. All access goes through mu.
type Store struct {
	mu      sync.Mutex
	records []model.Repository
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{records: []model.Repository{}, log: logger}
}

// The helpers below expect mu to be held.

func (s *Store) list() []model.Repository {
	out := make([]model.Repository, len(s.records))
	for i, record := range s.records {
		out[i] = clone(record)
	}
	return out
}

func (s *Store) findIndex(id uuid.UUID) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) insert(record model.Repository) {
	s.records = append(s.records, record)
}

func (s *Store) replaceAt(index int, record model.Repository) {
	s.records[index] = record
}

func (s *Store) removeAt(index int) model.Repository {
	removed := s.records[index]
	s.records = append(s.records[:index], s.records[index+1:]...)
	return removed
}

func clone(record model.Repository) model.Repository {
	if record.Techs != nil {
		record.Techs = append([]string{}, record.Techs...)
	}
	return record
}
