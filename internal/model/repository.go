package model

import "github.com/google/uuid"

type Repository struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
	Techs []string  `json:"techs"`
	Likes int       `json:"likes"`
}
