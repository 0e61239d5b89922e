package client

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

func (c *studioClient) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	var list []models.Scenario
	if err := c.doJSON(ctx, http.MethodGet, "/api/scenarios/", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Scenario{}
	}
	return list, nil
}

func (c *studioClient) GetScenario(ctx context.Context, id int64) (*models.Scenario, error) {
	var sc models.Scenario
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/scenarios/%d", id), nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (c *studioClient) CreateScenario(ctx context.Context, draft models.ScenarioDraft) (*models.Scenario, error) {
	var sc models.Scenario
	if err := c.doJSON(ctx, http.MethodPost, "/api/scenarios/", draft, &sc); err != nil {
		return nil, err
	}
	c.logger.Info("Scenario created", zap.Int64("scenarioID", sc.ID))
	return &sc, nil
}

func (c *studioClient) UpdateScenario(ctx context.Context, id int64, draft models.ScenarioDraft) (*models.Scenario, error) {
	var sc models.Scenario
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/scenarios/%d", id), draft, &sc); err != nil {
		return nil, err
	}
	c.logger.Info("Scenario updated", zap.Int64("scenarioID", id))
	return &sc, nil
}

func (c *studioClient) DeleteScenario(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/scenarios/%d", id), nil, nil); err != nil {
		return err
	}
	c.logger.Info("Scenario deleted", zap.Int64("scenarioID", id))
	return nil
}
