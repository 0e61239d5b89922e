package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/session"
)

type exportRequest struct {
	Format string `json:"format"`
}

func (h *StudioHandler) getSession(c *gin.Context) {
	ws := currentWorkspace(c)
	c.JSON(http.StatusOK, ws.Session.State())
}

// updateConfig накладывает присланные поля на текущую конфигурацию.
func (h *StudioHandler) updateConfig(c *gin.Context) {
	ws := currentWorkspace(c)
	cfg := ws.Session.Config()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, "invalid config payload: "+err.Error())
		return
	}
	if _, err := ws.Session.SetConfig(cfg); err != nil {
		handleServiceError(c, h.logger, err, "")
		return
	}
	h.persist(c, ws)
	c.JSON(http.StatusOK, ws.Session.State())
}

func (h *StudioHandler) generate(c *gin.Context) {
	ws := currentWorkspace(c)
	kind := string(models.ResultKindFlat)
	if ws.Session.Config().HasScenario() {
		kind = string(models.ResultKindScenario)
	}

	// Обрыв соединения браузера не отменяет генерацию, её ограничивает только таймаут клиента
	ctx := context.WithoutCancel(c.Request.Context())
	_, err := ws.Session.Submit(ctx)
	generationsTotal.WithLabelValues(kind, statusLabel(err)).Inc()
	if err != nil {
		h.persist(c, ws)
		handleServiceError(c, h.logger, err, session.FallbackGenerationMessage)
		return
	}
	h.persist(c, ws)
	c.JSON(http.StatusOK, ws.Session.State())
}

func (h *StudioHandler) export(c *gin.Context) {
	ws := currentWorkspace(c)
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid export payload: "+err.Error())
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))

	file, err := ws.Session.Export(c.Request.Context(), format)
	label := format
	if format != session.ExportText && format != session.ExportHTML {
		label = "invalid"
	}
	exportsTotal.WithLabelValues(label, statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, session.FallbackExportMessage)
		return
	}

	h.logger.Info("Export served",
		zap.String("workspaceID", ws.ID),
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *StudioHandler) submitFeedback(c *gin.Context) {
	ws := currentWorkspace(c)
	var metrics models.FeedbackMetrics
	if err := c.ShouldBindJSON(&metrics); err != nil {
		badRequest(c, "invalid feedback payload: "+err.Error())
		return
	}
	resp, err := ws.Session.SubmitFeedback(c.Request.Context(), metrics)
	if err != nil {
		handleServiceError(c, h.logger, err, session.FallbackFeedbackMessage)
		return
	}
	c.JSON(http.StatusOK, resp)
}
