package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

// Максимальный размер тела ответа, который читаем целиком.
const maxResponseBody = 32 << 20

type studioClient struct {
	baseURL    string
	httpClient *http.Client
	apiToken   string
	logger     *zap.Logger
}

// NewStudioClient создает клиент удалённого сервиса генерации.
// apiToken может быть пустым: тогда заголовок авторизации не отправляется.
func NewStudioClient(baseURL string, timeout time.Duration, apiToken string, logger *zap.Logger) (StudioClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for generation service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &studioClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiToken: apiToken,
		logger:   logger.Named("StudioClient"),
	}, nil
}

// do выполняет запрос и возвращает тело успешного ответа.
// Не-2xx ответ превращается в *APIError, сетевой сбой оборачивает ErrServiceUnavailable.
func (c *studioClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, string, error) {
	reqURL := c.baseURL + path
	log := c.logger.With(zap.String("method", method), zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		log.Error("Failed to create HTTP request", zap.Error(err))
		return nil, "", fmt.Errorf("internal error creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	log.Debug("Sending request to generation service")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("HTTP request failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		log.Error("Failed to read response body", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, "", fmt.Errorf("%w: failed to read response: %v", models.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Received non-OK status", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return nil, "", newAPIError(resp.StatusCode, respBody)
	}

	return respBody, resp.Header.Get("Content-Type"), nil
}

// doJSON сериализует payload (если он не nil) и разбирает ответ в out (если out не nil).
func (c *studioClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			c.logger.Error("Failed to marshal request body", zap.String("path", path), zap.Error(err))
			return fmt.Errorf("internal error marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	respBody, _, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Error("Failed to unmarshal response", zap.String("path", path), zap.ByteString("body", respBody), zap.Error(err))
		return fmt.Errorf("invalid response format from generation service: %w", err)
	}
	return nil
}
