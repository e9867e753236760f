package api

import (
	"strings"

	handlershared "github.com/mlops-microproject/review-workspace/internal/http/handlers/shared"
	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/models"

	"github.com/gin-gonic/gin"
)

// Analyze scores {"order"} or {"orders"}
func (h *Handler) Analyze(c *gin.Context) {
	req, ok := h.bindAnalyzeRequest(c)
	if !ok {
		return
	}
	response.Success(c, h.AnalyzeService.Analyze(req))
}

// Explain scores and lists the risk terms behind each prediction
func (h *Handler) Explain(c *gin.Context) {
	req, ok := h.bindAnalyzeRequest(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"explanations": h.AnalyzeService.Explain(req)})
}

// SubmitAnalyzeJob queues a batch for the worker
func (h *Handler) SubmitAnalyzeJob(c *gin.Context) {
	req, ok := h.bindAnalyzeRequest(c)
	if !ok {
		return
	}
	job, err := h.AnalyzeService.SubmitJob(c.Request.Context(), req)
	if err != nil {
		respondMappedError(c, err, analyzeJobErrorRules, response.CodeInternal, "failed to submit analyze job")
		return
	}
	response.Success(c, gin.H{"job_id": job.ID, "status": job.Status})
}

// GetAnalyzeJob returns the state of a queued batch
func (h *Handler) GetAnalyzeJob(c *gin.Context) {
	job, err := h.AnalyzeService.GetJob(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondMappedError(c, err, analyzeJobErrorRules, response.CodeInternal, "failed to load analyze job")
		return
	}
	response.Success(c, job)
}

func (h *Handler) bindAnalyzeRequest(c *gin.Context) (models.AnalyzeRequest, bool) {
	body, err := handlershared.ReadBody(c)
	if err != nil {
		respondMappedError(c, err, requestBodyErrorRules, response.CodeBadRequest, "failed to read request body")
		return models.AnalyzeRequest{}, false
	}
	req, err := models.DecodeAnalyzeRequest(body)
	if err != nil {
		respondMappedError(c, err, requestBodyErrorRules, response.CodeBadRequest, "invalid analyze request")
		return models.AnalyzeRequest{}, false
	}
	return req, true
}
