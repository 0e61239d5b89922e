package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prelanding-studio/internal/catalog"
	"prelanding-studio/internal/models"
)

const (
	fallbackUploadMessage  = "Ошибка загрузки"
	fallbackCatalogMessage = "Ошибка загрузки prelandings"
)

type uploadResponse struct {
	Summary *models.UploadSummary `json:"summary"`
	View    catalog.View          `json:"view"`
}

// getLibrary применяет фильтры из query и возвращает текущую страницу.
// Смена фильтров сбрасывает страницу, поэтому page учитывается только при неизменных фильтрах.
func (h *StudioHandler) getLibrary(c *gin.Context) {
	ws := currentWorkspace(c)
	lib := ws.Library
	ctx := c.Request.Context()

	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid library query: "+err.Error())
		return
	}
	before := lib.View()

	if vertical, ok := c.GetQuery("vertical"); ok {
		if err := lib.SetVertical(ctx, vertical); err != nil {
			// Ошибка уже отражена в представлении
			h.logger.Warn("Library vertical refresh failed", zap.String("workspaceID", ws.ID), zap.Error(err))
		}
	}
	if err := lib.EnsureLoaded(ctx); err != nil {
		h.logger.Warn("Library load failed", zap.String("workspaceID", ws.ID), zap.Error(err))
	}
	lib.SetQuery(q)

	if raw, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid page")
			return
		}
		after := lib.View()
		if after.Query == before.Query && after.Vertical == before.Vertical {
			lib.SetPage(page)
		}
	}
	c.JSON(http.StatusOK, lib.View())
}

func (h *StudioHandler) uploadArchive(c *gin.Context) {
	ws := currentWorkspace(c)
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	summary, err := ws.Library.Upload(c.Request.Context(), fh.Filename, f)
	uploadsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackUploadMessage)
		return
	}
	c.JSON(http.StatusOK, uploadResponse{Summary: summary, View: ws.Library.View()})
}

// deletePrelanding требует ?confirm=true; name используется только в тексте подтверждения.
func (h *StudioHandler) deletePrelanding(c *gin.Context) {
	ws := currentWorkspace(c)
	id := c.Param("id")
	err := ws.Library.Delete(c.Request.Context(), id, c.Query("name"), queryConfirmer(c))
	deletionsTotal.WithLabelValues("prelanding", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackCatalogMessage)
		return
	}
	c.JSON(http.StatusOK, ws.Library.View())
}

func (h *StudioHandler) topPrelandings(c *gin.Context) {
	ws := currentWorkspace(c)
	q := models.TopQuery{
		Metric:   c.Param("metric"),
		Geo:      c.Query("geo"),
		Vertical: c.Query("vertical"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		q.Limit = limit
	}
	list, err := ws.Library.TopPerformers(c.Request.Context(), q)
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackCatalogMessage)
		return
	}
	if list == nil {
		list = []models.CatalogEntry{}
	}
	c.JSON(http.StatusOK, list)
}
