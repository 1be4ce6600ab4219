package domain

import (
	"errors"
	"strings"
)

const (
	EventRepositoryCreated = "repository.created"
	EventRepositoryUpdated = "repository.updated"
	EventRepositoryDeleted = "repository.deleted"
	EventRepositoryLiked   = "repository.liked"
)

var ErrRepositoryNotFound = errors.New("repository not found")

func IsValidEventType(value string) bool {
	switch value {
	case EventRepositoryCreated, EventRepositoryUpdated, EventRepositoryDeleted, EventRepositoryLiked:
		return true
	default:
		return false
	}
}

// EventSuffix strips the "repository." namespace, e.g. "repository.liked" -> "liked".
func EventSuffix(eventType string) string {
	return strings.TrimPrefix(eventType, "repository.")
}

// NormalizeTechs returns a copy of techs that is never nil.
func NormalizeTechs(techs []string) []string {
	out := make([]string, len(techs))
	copy(out, techs)
	return out
}
