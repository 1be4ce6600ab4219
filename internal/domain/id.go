package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissingID = errors.New("repository id required")
	ErrInvalidID = errors.New("invalid repository id")
)

const canonicalUUIDLen = 36

// ParseRepositoryID accepts only the canonical 8-4-4-4-12 form. It never looks at the store.
func ParseRepositoryID(raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, ErrMissingID
	}
	if len(raw) != canonicalUUIDLen {
		return uuid.Nil, ErrInvalidID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
