package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prelanding-studio/internal/generators"
	"prelanding-studio/internal/models"
)

type namesResponse struct {
	generators.NameState
	Clipboard string `json:"clipboard"`
}

func (h *StudioHandler) generateNames(c *gin.Context) {
	ws := currentWorkspace(c)
	var req models.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid names payload: "+err.Error())
		return
	}
	_, err := ws.Names.Generate(c.Request.Context(), req)
	generatorBatchesTotal.WithLabelValues("names", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, generators.FallbackNamesMessage)
		return
	}
	c.JSON(http.StatusOK, namesResponse{NameState: ws.Names.State(), Clipboard: ws.Names.ClipboardText()})
}

func (h *StudioHandler) generateReviews(c *gin.Context) {
	ws := currentWorkspace(c)
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid reviews payload: "+err.Error())
		return
	}
	_, err := ws.Reviews.Generate(c.Request.Context(), req)
	generatorBatchesTotal.WithLabelValues("reviews", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, generators.FallbackReviewsMessage)
		return
	}
	c.JSON(http.StatusOK, ws.Reviews.State())
}
