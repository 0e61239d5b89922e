package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

// Эндпоинты генерации
const (
	EndpointFlat     = "/api/generate/"
	EndpointScenario = "/api/generate/with-scenario"
)

// RawGeneration - ответ сервиса генерации в том виде, в каком он пришёл.
// Плоский и сценарный ответы отличаются набором полей.
type RawGeneration struct {
	GenID               string            `json:"gen_id"`
	GeneratedText       *string           `json:"generated_text,omitempty"`
	GeneratedHTML       *string           `json:"generated_html,omitempty"`
	Beginning           *string           `json:"beginning,omitempty"`
	Middle              *string           `json:"middle,omitempty"`
	End                 *string           `json:"end,omitempty"`
	FullText            *string           `json:"full_text,omitempty"`
	Scenario            json.RawMessage   `json:"scenario,omitempty"`
	CompliancePassed    bool              `json:"compliance_passed"`
	ComplianceIssues    []json.RawMessage `json:"compliance_issues,omitempty"`
	ComplianceWarnings  []json.RawMessage `json:"compliance_warnings,omitempty"`
	SourcePrelandingIDs []string          `json:"source_prelanding_ids,omitempty"`
	TokensUsed          int               `json:"tokens_used"`
	CreatedAt           *models.Timestamp `json:"created_at,omitempty"`
}

// ExportPayload - содержимое экспорта.
type ExportPayload struct {
	Format      string
	ContentType string
	Data        []byte
}

func (c *studioClient) Generate(ctx context.Context, endpoint string, payload any) (*RawGeneration, error) {
	if endpoint != EndpointFlat && endpoint != EndpointScenario {
		return nil, fmt.Errorf("unknown generation endpoint %q", endpoint)
	}
	var raw RawGeneration
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &raw); err != nil {
		return nil, err
	}
	c.logger.Info("Generation completed",
		zap.String("endpoint", endpoint),
		zap.String("genID", raw.GenID),
		zap.Int("tokensUsed", raw.TokensUsed),
	)
	return &raw, nil
}

func (c *studioClient) GetGeneration(ctx context.Context, genID string) (*RawGeneration, error) {
	var raw RawGeneration
	path := "/api/generate/" + url.PathEscape(genID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// Export запрашивает экспорт. Сервис может вернуть как сырые байты, так и
// JSON {content, format}; во втором случае возвращается только content.
func (c *studioClient) Export(ctx context.Context, genID, format string) (*ExportPayload, error) {
	data, err := json.Marshal(map[string]string{"format": format})
	if err != nil {
		return nil, fmt.Errorf("internal error marshaling request: %w", err)
	}
	path := "/api/generate/" + url.PathEscape(genID) + "/export"
	body, contentType, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, err
	}

	out := &ExportPayload{Format: format, ContentType: contentType, Data: body}
	var wrapped struct {
		Content *string `json:"content"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Content != nil {
		out.Data = []byte(*wrapped.Content)
		out.ContentType = ""
	}
	if out.ContentType == "" {
		if format == "html" {
			out.ContentType = "text/html; charset=utf-8"
		} else {
			out.ContentType = "text/plain; charset=utf-8"
		}
	}
	c.logger.Debug("Export received", zap.String("genID", genID), zap.String("format", format), zap.Int("bytes", len(out.Data)))
	return out, nil
}

func (c *studioClient) SubmitFeedback(ctx context.Context, submission models.FeedbackSubmission) (*models.FeedbackResponse, error) {
	var resp models.FeedbackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/feedback/", submission, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *studioClient) FeedbackHistory(ctx context.Context, genID string) (*models.FeedbackHistory, error) {
	var h models.FeedbackHistory
	path := "/api/feedback/" + url.PathEscape(genID) + "/feedback"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &h); err != nil {
		return nil, err
	}
	if h.Feedback == nil {
		h.Feedback = []models.FeedbackRecord{}
	}
	return &h, nil
}
