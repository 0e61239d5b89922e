package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// ErrMalformedResult - ответ сервиса не похож ни на плоский, ни на сценарный результат.
var ErrMalformedResult = errors.New("generation response has neither text nor scenario parts")

// Normalize приводит сырой ответ к модели отображения.
// Вариант определяется только по наличию beginning/middle/end в ответе.
func Normalize(raw *client.RawGeneration) (*models.GenerationResult, error) {
	if raw == nil {
		return nil, ErrMalformedResult
	}

	res := &models.GenerationResult{
		GenerationID: raw.GenID,
		Compliance: models.ComplianceStatus{
			Passed:   raw.CompliancePassed,
			Warnings: complianceMessages(raw.ComplianceWarnings),
			Issues:   complianceMessages(raw.ComplianceIssues),
		},
		TokensUsed:          raw.TokensUsed,
		SourcePrelandingIDs: append([]string(nil), raw.SourcePrelandingIDs...),
	}
	if raw.CreatedAt != nil {
		res.CreatedAt = raw.CreatedAt.Time
	} else {
		res.CreatedAt = time.Now().UTC()
	}

	switch {
	case raw.Beginning != nil || raw.Middle != nil || raw.End != nil:
		body := models.ScenarioResult{
			Beginning: deref(raw.Beginning),
			Middle:    deref(raw.Middle),
			End:       deref(raw.End),
			FullText:  deref(raw.FullText),
			HTML:      raw.GeneratedHTML,
		}
		if len(raw.Scenario) > 0 && string(raw.Scenario) != "null" {
			var info models.ScenarioInfo
			if err := json.Unmarshal(raw.Scenario, &info); err != nil {
				return nil, fmt.Errorf("invalid scenario info in response: %w", err)
			}
			body.Scenario = &info
		}
		res.Body = body
	case raw.GeneratedText != nil:
		res.Body = models.FlatResult{Text: *raw.GeneratedText, HTML: raw.GeneratedHTML}
	default:
		return nil, ErrMalformedResult
	}
	return res, nil
}

// complianceMessages сохраняет порядок сервиса. Объект сводится к полю message,
// строка берётся как есть, остальное - сырым JSON.
func complianceMessages(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		var obj struct {
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(it, &obj); err == nil && obj.Message != nil {
			out = append(out, *obj.Message)
			continue
		}
		var s string
		if err := json.Unmarshal(it, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(it))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
