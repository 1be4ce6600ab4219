package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"repohub/internal/http/dto"
	"repohub/internal/http/resp"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Subscribers: h.hub.Subscribers()})
}

func (h *Handler) NoRoute(c *gin.Context) {
	resp.Error(c, http.StatusNotFound, resp.CodeRouteNotFound, "route not found")
}

func (h *Handler) NoMethod(c *gin.Context) {
	resp.Error(c, http.StatusMethodNotAllowed, resp.CodeMethodNotAllowed, "method not allowed")
}
