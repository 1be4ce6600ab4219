package repos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/domain"
	"repohub/internal/idgen"
	"repohub/internal/metrics"
	"repohub/internal/model"
	"repohub/internal/queue"
	"repohub/internal/repository"
	"repohub/internal/sse"
)

const tracerName = "repohub/repos"

// Draft carries the client-editable fields of a repository.
type Draft struct {
	Title string
	URL   string
	Techs []string
}

type Service struct {
	store       repository.RepositoryStore
	ids         idgen.Generator
	hub         *sse.Hub
	pub         queue.Publisher
	metrics     *metrics.Metrics
	eventPrefix string
	log         *zap.Logger
	now         func() time.Time
}

func NewService(
	cfg *config.Config,
	store repository.RepositoryStore,
	ids idgen.Generator,
	hub *sse.Hub,
	publisher queue.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	prefix := cfg.RabbitEventPrefix
	if prefix == "" {
		prefix = "repository.event"
	}
	return &Service{
		store:       store,
		ids:         ids,
		hub:         hub,
		pub:         publisher,
		metrics:     m,
		eventPrefix: prefix,
		log:         logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]model.Repository, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.list")
	defer span.End()

	repos, err := s.store.ListRepositories(ctx)
	if err != nil {
		failSpan(span, err)
		s.log.Error("store list repositories failed", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("repos.count", len(repos)))
	return repos, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Repository, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.get")
	span.SetAttributes(attribute.String("repos.id", id.String()))
	defer span.End()

	repo, err := s.store.GetRepository(ctx, id)
	if err != nil {
		failSpan(span, err)
		s.logStoreError("store get repository failed", id, err)
		return model.Repository{}, err
	}
	return repo, nil
}

func (s *Service) Create(ctx context.Context, draft Draft) (model.Repository, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.create")
	defer span.End()

	id, err := s.ids.Generate()
	if err != nil {
		failSpan(span, err)
		s.log.Error("generate repository id failed", zap.Error(err))
		return model.Repository{}, err
	}
	span.SetAttributes(attribute.String("repos.id", id.String()))

	created, err := s.store.CreateRepository(ctx, model.Repository{
		ID:    id,
		Title: draft.Title,
		URL:   draft.URL,
		Techs: domain.NormalizeTechs(draft.Techs),
		Likes: 0,
	})
	if err != nil {
		failSpan(span, err)
		s.logStoreError("store create repository failed", id, err)
		return model.Repository{}, err
	}

	s.emit(ctx, domain.EventRepositoryCreated, created)
	s.refreshCount(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, draft Draft) (model.Repository, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.update")
	span.SetAttributes(attribute.String("repos.id", id.String()))
	defer span.End()

	updated, err := s.store.UpdateRepository(ctx, model.Repository{
		ID:    id,
		Title: draft.Title,
		URL:   draft.URL,
		Techs: domain.NormalizeTechs(draft.Techs),
	})
	if err != nil {
		failSpan(span, err)
		s.logStoreError("store update repository failed", id, err)
		return model.Repository{}, err
	}

	s.emit(ctx, domain.EventRepositoryUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.delete")
	span.SetAttributes(attribute.String("repos.id", id.String()))
	defer span.End()

	removed, err := s.store.DeleteRepository(ctx, id)
	if err != nil {
		failSpan(span, err)
		s.logStoreError("store delete repository failed", id, err)
		return err
	}

	s.emit(ctx, domain.EventRepositoryDeleted, removed)
	s.refreshCount(ctx)
	return nil
}

func (s *Service) Like(ctx context.Context, id uuid.UUID) (model.Repository, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "repos.like")
	span.SetAttributes(attribute.String("repos.id", id.String()))
	defer span.End()

	liked, err := s.store.LikeRepository(ctx, id)
	if err != nil {
		failSpan(span, err)
		s.logStoreError("store like repository failed", id, err)
		return model.Repository{}, err
	}
	span.SetAttributes(attribute.Int("repos.likes", liked.Likes))

	s.emit(ctx, domain.EventRepositoryLiked, liked)
	return liked, nil
}

// emit fans a mutation out to live subscribers and the message broker.
// Delivery problems are logged; the mutation itself already happened.
// s.pub is expected to return promptly, see queue.Dispatcher.
func (s *Service) emit(ctx context.Context, eventType string, repo model.Repository) {
	if !domain.IsValidEventType(eventType) {
		s.log.Error("refusing to emit unknown event type", zap.String("type", eventType))
		return
	}
	event := model.RepositoryEvent{
		Type:       eventType,
		Repository: repo,
		OccurredAt: s.now(),
	}
	s.metrics.RecordEvent(eventType)

	if !s.hub.Broadcast(event) {
		s.log.Warn("event dropped, hub queue full",
			zap.String("type", eventType),
			zap.String("id", repo.ID.String()),
		)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("event marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	routingKey := s.eventPrefix + "." + domain.EventSuffix(eventType)
	if err := s.pub.Publish(ctx, payload, routingKey); err != nil {
		s.log.Error("publish event failed",
			zap.String("type", eventType),
			zap.String("routing_key", routingKey),
			zap.String("id", repo.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) refreshCount(ctx context.Context) {
	n, err := s.store.CountRepositories(ctx)
	if err != nil {
		s.log.Warn("store count repositories failed", zap.Error(err))
		return
	}
	s.metrics.SetRepositories(n)
}

func (s *Service) logStoreError(msg string, id uuid.UUID, err error) {
	if errors.Is(err, domain.ErrRepositoryNotFound) {
		s.log.Debug(msg, zap.String("id", id.String()), zap.Error(err))
		return
	}
	s.log.Error(msg, zap.String("id", id.String()), zap.Error(err))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
