package memory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"repohub/internal/domain"
	"repohub/internal/model"
)

func (s *Store) ListRepositories(_ context.Context) ([]model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(), nil
}

func (s *Store) GetRepository(_ context.Context, id uuid.UUID) (model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(id)
	if i < 0 {
		return model.Repository{}, domain.ErrRepositoryNotFound
	}
	return clone(s.records[i]), nil
}

func (s *Store) CreateRepository(_ context.Context, repo model.Repository) (model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo = clone(repo)
	s.insert(repo)
	s.log.Debug("repository stored", zap.String("id", repo.ID.String()), zap.Int("total", len(s.records)))
	return clone(repo), nil
}

// UpdateRepository overwrites title, url and techs. ID and likes are kept.
func (s *Store) UpdateRepository(_ context.Context, repo model.Repository) (model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(repo.ID)
	if i < 0 {
		return model.Repository{}, domain.ErrRepositoryNotFound
	}
	updated := s.records[i]
	updated.Title = repo.Title
	updated.URL = repo.URL
	updated.Techs = clone(repo).Techs
	s.replaceAt(i, updated)
	return clone(updated), nil
}

func (s *Store) DeleteRepository(_ context.Context, id uuid.UUID) (model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(id)
	if i < 0 {
		return model.Repository{}, domain.ErrRepositoryNotFound
	}
	removed := s.removeAt(i)
	s.log.Debug("repository removed", zap.String("id", id.String()), zap.Int("total", len(s.records)))
	return removed, nil
}

func (s *Store) LikeRepository(_ context.Context, id uuid.UUID) (model.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(id)
	if i < 0 {
		return model.Repository{}, domain.ErrRepositoryNotFound
	}
	liked := s.records[i]
	liked.Likes++
	s.replaceAt(i, liked)
	return clone(liked), nil
}

func (s *Store) CountRepositories(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}
