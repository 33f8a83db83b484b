package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type variableService interface {
	Get(ctx context.Context, scope, key string) (any, bool, error)
	Set(ctx context.Context, scope, key string, value any) error
	Delete(ctx context.Context, scope, key string) error
}

type variableResponse struct {
	Scope string `json:"scope"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type VariableHandler struct {
	vars variableService
}

func NewVariableHandler(vars variableService) *VariableHandler {
	return &VariableHandler{vars: vars}
}

func (h *VariableHandler) Register(r *gin.RouterGroup) {
	r.GET("/variables/global/:key", h.Get)
	r.PUT("/variables/global/:key", h.Set)
	r.DELETE("/variables/global/:key", h.Delete)
	r.GET("/variables/flow/:flow_id/:key", h.Get)
	r.PUT("/variables/flow/:flow_id/:key", h.Set)
	r.DELETE("/variables/flow/:flow_id/:key", h.Delete)
}

func scopeOf(c *gin.Context) string {
	if flowID := c.Param("flow_id"); flowID != "" {
		return domain.FlowScope(flowID)
	}
	return domain.GlobalScope
}

func (h *VariableHandler) Get(c *gin.Context) {
	scope, key := scopeOf(c), c.Param("key")

	v, ok, err := h.vars.Get(c.Request.Context(), scope, key)
	if err != nil {
		zap.L().Error("get variable", zap.String("scope", scope), zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch variable"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "variable not found"})
		return
	}
	c.JSON(http.StatusOK, variableResponse{Scope: scope, Key: key, Value: v})
}

func (h *VariableHandler) Set(c *gin.Context) {
	scope, key := scopeOf(c), c.Param("key")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be JSON"})
		return
	}

	if err := h.vars.Set(c.Request.Context(), scope, key, value); err != nil {
		zap.L().Error("set variable", zap.String("scope", scope), zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store variable"})
		return
	}
	c.JSON(http.StatusOK, variableResponse{Scope: scope, Key: key, Value: value})
}

func (h *VariableHandler) Delete(c *gin.Context) {
	scope, key := scopeOf(c), c.Param("key")

	if err := h.vars.Delete(c.Request.Context(), scope, key); err != nil {
		zap.L().Error("delete variable", zap.String("scope", scope), zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete variable"})
		return
	}
	c.Status(http.StatusNoContent)
}
