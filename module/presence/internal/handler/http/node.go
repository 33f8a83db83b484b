package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type nodeService interface {
	Dispatch(ctx context.Context, nodeID string, msg domain.Message) (*domain.Result, error)
	Nodes() []domain.NodeConfig
	Node(nodeID string) (domain.NodeConfig, bool)
	Reset(ctx context.Context, nodeID string) error
}

type statusBoard interface {
	Latest(nodeID string) (domain.Status, bool)
}

type NodeHandler struct {
	nodes  nodeService
	status statusBoard
}

func NewNodeHandler(nodes nodeService, status statusBoard) *NodeHandler {
	return &NodeHandler{nodes: nodes, status: status}
}

func (h *NodeHandler) Register(r *gin.RouterGroup) {
	r.GET("/nodes", h.ListNodes)
	r.GET("/nodes/:node_id", h.GetNode)
	r.GET("/nodes/:node_id/status", h.GetStatus)
	r.POST("/nodes/:node_id/input", h.Input)
	r.DELETE("/nodes/:node_id/context", h.ResetContext)
}

func (h *NodeHandler) ListNodes(c *gin.Context) {
	c.JSON(http.StatusOK, h.nodes.Nodes())
}

func (h *NodeHandler) GetNode(c *gin.Context) {
	cfg, ok := h.nodes.Node(c.Param("node_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *NodeHandler) GetStatus(c *gin.Context) {
	nodeID := c.Param("node_id")
	if _, ok := h.nodes.Node(nodeID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	st, ok := h.status.Latest(nodeID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, st)
}

// Input injects a message into a node, the same way an MQTT delivery would.
func (h *NodeHandler) Input(c *gin.Context) {
	nodeID := c.Param("node_id")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	var msg domain.Message
	if err := json.Unmarshal(body, &msg); err != nil || msg == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}
	if _, ok := msg["_msgid"]; !ok {
		msg["_msgid"] = uuid.NewString()
	}

	res, err := h.nodes.Dispatch(c.Request.Context(), nodeID, msg)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownNode) {
			c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
			return
		}
		zap.L().Error("presence evaluation failed", zap.String("node_id", nodeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evaluate presence"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *NodeHandler) ResetContext(c *gin.Context) {
	nodeID := c.Param("node_id")
	if err := h.nodes.Reset(c.Request.Context(), nodeID); err != nil {
		if errors.Is(err, domain.ErrUnknownNode) {
			c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
			return
		}
		zap.L().Error("reset node context", zap.String("node_id", nodeID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset context"})
		return
	}
	c.Status(http.StatusNoContent)
}
