package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

// Сколько записей запрашиваем за раз; библиотека фильтруется уже на клиенте.
const catalogFetchLimit = 1000

func (c *studioClient) ListPrelandings(ctx context.Context, vertical string) ([]models.CatalogEntry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(catalogFetchLimit))
	if vertical != "" {
		q.Set("vertical", vertical)
	}
	var list []models.CatalogEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/prelandings/?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.CatalogEntry{}
	}
	return list, nil
}

func (c *studioClient) GetPrelanding(ctx context.Context, id string) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/prelandings/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UploadZip отправляет архив multipart-формой в поле zip_file.
func (c *studioClient) UploadZip(ctx context.Context, filename string, r io.Reader) (*models.UploadSummary, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("zip_file", filename)
	if err != nil {
		return nil, fmt.Errorf("internal error creating multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("internal error closing multipart form: %w", err)
	}

	respBody, _, err := c.do(ctx, http.MethodPost, "/api/prelandings/upload-zip", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var summary models.UploadSummary
	if err := json.Unmarshal(respBody, &summary); err != nil {
		c.logger.Error("Failed to unmarshal upload response", zap.ByteString("body", respBody), zap.Error(err))
		return nil, fmt.Errorf("invalid upload response format from generation service: %w", err)
	}
	c.logger.Info("Archive uploaded",
		zap.String("filename", filename),
		zap.String("prelandingID", summary.PrelandingID),
		zap.String("verticalDetected", summary.VerticalDetected),
	)
	return &summary, nil
}

func (c *studioClient) DeletePrelanding(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/prelandings/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.logger.Info("Prelanding deleted", zap.String("prelandingID", id))
	return nil
}

func (c *studioClient) TopPrelandings(ctx context.Context, tq models.TopQuery) ([]models.CatalogEntry, error) {
	q := url.Values{}
	if tq.Geo != "" {
		q.Set("geo", tq.Geo)
	}
	if tq.Vertical != "" {
		q.Set("vertical", tq.Vertical)
	}
	if tq.Limit > 0 {
		q.Set("limit", strconv.Itoa(tq.Limit))
	}
	path := "/api/prelandings/top/" + url.PathEscape(tq.Metric)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var list []models.CatalogEntry
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.CatalogEntry{}
	}
	return list, nil
}
