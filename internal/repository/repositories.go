package repository

import (
	"context"

	"github.com/google/uuid"
	"repohub/internal/model"
)

type RepositoryStore interface {
	ListRepositories(ctx context.Context) ([]model.Repository, error)
	GetRepository(ctx context.Context, id uuid.UUID) (model.Repository, error)
	CreateRepository(ctx context.Context, repo model.Repository) (model.Repository, error)
	UpdateRepository(ctx context.Context, repo model.Repository) (model.Repository, error)
	DeleteRepository(ctx context.Context, id uuid.UUID) (model.Repository, error)
	LikeRepository(ctx context.Context, id uuid.UUID) (model.Repository, error)
	CountRepositories(ctx context.Context) (int, error)
}
