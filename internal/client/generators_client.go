package client

import (
	"context"
	"net/http"

	"prelanding-studio/internal/models"
)

func (c *studioClient) GenerateNames(ctx context.Context, req models.NameRequest) ([]models.NameRecord, error) {
	var names []models.NameRecord
	if err := c.doJSON(ctx, http.MethodPost, "/api/generators/names", req, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *studioClient) GenerateReviews(ctx context.Context, req models.ReviewRequest) ([]models.ReviewRecord, error) {
	var reviews []models.ReviewRecord
	if err := c.doJSON(ctx, http.MethodPost, "/api/generators/reviews", req, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
