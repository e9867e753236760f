package api

import (
	"strings"

	handlershared "github.com/mlops-microproject/review-workspace/internal/http/handlers/shared"
	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/service"

	"github.com/gin-gonic/gin"
)

// SelectOrderRequest selects an order tab
type SelectOrderRequest struct {
	Index *int `json:"index" binding:"required"`
}

// CreateWorkspace starts a workspace with one empty order
func (h *Handler) CreateWorkspace(c *gin.Context) {
	view, err := h.WorkspaceService.Create()
	h.respondView(c, view, err)
}

// GetWorkspace returns the workspace snapshot
func (h *Handler) GetWorkspace(c *gin.Context) {
	view, err := h.WorkspaceService.Get(workspaceID(c))
	h.respondView(c, view, err)
}

// DeleteWorkspace drops a workspace
func (h *Handler) DeleteWorkspace(c *gin.Context) {
	if err := h.WorkspaceService.Delete(workspaceID(c)); err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeInternal, "failed to delete workspace")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddOrder appends an empty order
func (h *Handler) AddOrder(c *gin.Context) {
	view, err := h.WorkspaceService.AddOrder(workspaceID(c))
	h.respondView(c, view, err)
}

// RemoveActiveOrder removes the active order unless it is the last one
func (h *Handler) RemoveActiveOrder(c *gin.Context) {
	removed, view, err := h.WorkspaceService.RemoveActive(workspaceID(c))
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeInternal, "failed to remove order")
		return
	}
	response.Success(c, gin.H{"removed": removed, "workspace": view})
}

// SelectOrder makes an order active
func (h *Handler) SelectOrder(c *gin.Context) {
	var req SelectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "index is required")
		return
	}
	view, err := h.WorkspaceService.Select(workspaceID(c), *req.Index)
	h.respondView(c, view, err)
}

// UpdateActiveOrder merges a partial order into the active one
func (h *Handler) UpdateActiveOrder(c *gin.Context) {
	body, err := handlershared.ReadBody(c)
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeBadRequest, "failed to read request body")
		return
	}
	view, err := h.WorkspaceService.UpdateActive(workspaceID(c), body)
	h.respondView(c, view, err)
}

// ImportOrders replaces the orders with a pasted JSON document
func (h *Handler) ImportOrders(c *gin.Context) {
	body, err := handlershared.ReadBody(c)
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeBadRequest, "failed to read request body")
		return
	}
	view, err := h.WorkspaceService.Import(workspaceID(c), string(body))
	h.respondView(c, view, err)
}

// GetPayload returns the request payload the workspace would send
func (h *Handler) GetPayload(c *gin.Context) {
	req, err := h.WorkspaceService.Payload(workspaceID(c))
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeInternal, "failed to build payload")
		return
	}
	response.Success(c, req)
}

// SendWorkspace scores the workspace orders
func (h *Handler) SendWorkspace(c *gin.Context) {
	result, err := h.WorkspaceService.Send(workspaceID(c))
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeInternal, "failed to analyze workspace")
		return
	}
	response.Success(c, result)
}

// ClearPredictions returns the workspace to editing
func (h *Handler) ClearPredictions(c *gin.Context) {
	view, err := h.WorkspaceService.ClearPredictions(workspaceID(c))
	h.respondView(c, view, err)
}

// ResetWorkspace starts a new analysis
func (h *Handler) ResetWorkspace(c *gin.Context) {
	view, err := h.WorkspaceService.Reset(workspaceID(c))
	h.respondView(c, view, err)
}

func (h *Handler) respondView(c *gin.Context, view service.WorkspaceView, err error) {
	if err != nil {
		respondMappedError(c, err, workspaceErrorRules, response.CodeInternal, "workspace operation failed")
		return
	}
	response.Success(c, view)
}

func workspaceID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
