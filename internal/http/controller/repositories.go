package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/domain"
	"repohub/internal/http/dto"
	"repohub/internal/http/resp"
	"repohub/internal/service/repos"
	"repohub/internal/sse"
)

const msgRepositoryNotFound = "Repository not found"

type Handler struct {
	cfg *config.Config
	svc *repos.Service
	hub *sse.Hub
	log *zap.Logger
}

func NewHandler(cfg *config.Config, svc *repos.Service, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: hub, log: logger}
}

func (h *Handler) ListRepositories(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, uuid.Nil)
		return
	}
	c.JSON(http.StatusOK, dto.RepositoryList(list))
}

func (h *Handler) GetRepository(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	repo, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, repo)
}

func (h *Handler) CreateRepository(c *gin.Context) {
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		h.writeServiceError(c, err, uuid.Nil)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) UpdateRepository(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	draft, ok := h.bindDraft(c)
	if !ok {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, draft)
	if err != nil {
		h.writeServiceError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteRepository(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err, id)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LikeRepository(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	liked, err := h.svc.Like(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err, id)
		return
	}
	c.JSON(http.StatusOK, dto.LikesResponse{Likes: liked.Likes})
}

// MissingID answers routes reached with an empty :id segment.
func (h *Handler) MissingID(c *gin.Context) {
	h.parseID(c, "")
}

// pathID validates the :id segment and writes the 400 response itself on failure.
func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	return h.parseID(c, c.Param("id"))
}

func (h *Handler) parseID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := domain.ParseRepositoryID(raw)
	if err == nil {
		return id, true
	}
	code := resp.CodeInvalidID
	if errors.Is(err, domain.ErrMissingID) {
		code = resp.CodeMissingID
	}
	resp.Error(c, http.StatusBadRequest, code, err.Error())
	return uuid.Nil, false
}

// bindDraft decodes the body. An empty body is an empty draft and mistyped
// fields are dropped; only unparseable JSON is rejected.
func (h *Handler) bindDraft(c *gin.Context) (repos.Draft, bool) {
	var req dto.RepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		resp.Error(c, http.StatusBadRequest, resp.CodeBadRequest, "invalid json")
		return repos.Draft{}, false
	}
	return repos.Draft{Title: req.TitleValue(), URL: req.URLValue(), Techs: req.TechsValue()}, true
}

func (h *Handler) writeServiceError(c *gin.Context, err error, id uuid.UUID) {
	if errors.Is(err, domain.ErrRepositoryNotFound) {
		resp.Error(c, http.StatusNotFound, resp.CodeNotFound, msgRepositoryNotFound)
		return
	}
	h.log.Error("repository request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.String("id", id.String()),
		zap.Error(err),
	)
	_ = c.Error(err)
	resp.Error(c, http.StatusInternalServerError, resp.CodeInternalError, "internal error")
}
