package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/scenario"
)

const fallbackScenarioMessage = "Ошибка сервиса сценариев"

type scenarioMutationResponse struct {
	Scenario  *models.Scenario  `json:"scenario,omitempty"`
	Scenarios []models.Scenario `json:"scenarios"`
}

func (h *StudioHandler) listScenarios(c *gin.Context) {
	list, err := h.scenarios.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackScenarioMessage)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *StudioHandler) createScenario(c *gin.Context) {
	var draft models.ScenarioDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid scenario payload: "+err.Error())
		return
	}
	created, err := h.scenarios.Create(c.Request.Context(), draft)
	scenarioMutationsTotal.WithLabelValues("create", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackScenarioMessage)
		return
	}
	c.JSON(http.StatusCreated, scenarioMutationResponse{Scenario: created, Scenarios: h.scenarios.Scenarios()})
}

func (h *StudioHandler) updateScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var draft models.ScenarioDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid scenario payload: "+err.Error())
		return
	}
	updated, err := h.scenarios.Update(c.Request.Context(), id, draft)
	scenarioMutationsTotal.WithLabelValues("update", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackScenarioMessage)
		return
	}
	c.JSON(http.StatusOK, scenarioMutationResponse{Scenario: updated, Scenarios: h.scenarios.Scenarios()})
}

// deleteScenario требует ?confirm=true: браузер уже показал диалог подтверждения.
func (h *StudioHandler) deleteScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	err := h.scenarios.Delete(c.Request.Context(), id, queryConfirmer(c))
	deletionsTotal.WithLabelValues("scenario", statusLabel(err)).Inc()
	if err != nil {
		handleServiceError(c, h.logger, err, fallbackScenarioMessage)
		return
	}
	c.JSON(http.StatusOK, scenarioMutationResponse{Scenarios: h.scenarios.Scenarios()})
}

func scenarioID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid scenario id")
		return 0, false
	}
	return id, true
}

func queryConfirmer(c *gin.Context) scenario.ConfirmFunc {
	confirmed := c.Query("confirm") == "true"
	return func(context.Context, string) bool { return confirmed }
}
