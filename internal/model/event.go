package model

import "time"

type RepositoryEvent struct {
	Type       string     `json:"type"`
	Repository Repository `json:"repository"`
	OccurredAt time.Time  `json:"occurred_at"`
}
