package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResultKind - дискриминатор варианта результата генерации.
type ResultKind string

const (
	ResultKindFlat     ResultKind = "flat"
	ResultKindScenario ResultKind = "scenario"
)

// ResultBody - содержимое результата генерации. Реализации: FlatResult и ScenarioResult.
// Потребители различают варианты через type switch, а не проверкой полей.
type ResultBody interface {
	Kind() ResultKind
	// DisplayText возвращает текст для показа пользователю.
	DisplayText() string
	// HTMLBody возвращает HTML-версию, если сервис её вернул.
	HTMLBody() (string, bool)
	isResultBody()
}

// FlatResult - одиночный текст (плоский режим).
type FlatResult struct {
	Text string  `json:"text"`
	HTML *string `json:"html,omitempty"`
}

func (FlatResult) Kind() ResultKind { return ResultKindFlat }

func (r FlatResult) DisplayText() string { return r.Text }

func (r FlatResult) HTMLBody() (string, bool) { return derefHTML(r.HTML) }

func (FlatResult) isResultBody() {}

// ScenarioInfo - краткое описание сценария, по которому прошла генерация.
type ScenarioInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameRu string `json:"name_ru,omitempty"`
}

// ScenarioResult - трёхчастный текст (начало, середина, конец).
type ScenarioResult struct {
	Beginning string        `json:"beginning"`
	Middle    string        `json:"middle"`
	End       string        `json:"end"`
	FullText  string        `json:"full_text"`
	HTML      *string       `json:"html,omitempty"`
	Scenario  *ScenarioInfo `json:"scenario,omitempty"`
}

// Segment - часть сценарного текста с подписью.
type Segment struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Разделитель частей в DisplayText.
const segmentSeparator = "\n\n"

func (ScenarioResult) Kind() ResultKind { return ResultKindScenario }

// DisplayText склеивает части строго в порядке начало → середина → конец.
func (r ScenarioResult) DisplayText() string {
	return strings.Join([]string{r.Beginning, r.Middle, r.End}, segmentSeparator)
}

// Segments возвращает части для посегментного отображения.
func (r ScenarioResult) Segments() []Segment {
	return []Segment{
		{Label: "beginning", Text: r.Beginning},
		{Label: "middle", Text: r.Middle},
		{Label: "end", Text: r.End},
	}
}

func (r ScenarioResult) HTMLBody() (string, bool) { return derefHTML(r.HTML) }

func (ScenarioResult) isResultBody() {}

func derefHTML(h *string) (string, bool) {
	if h == nil || *h == "" {
		return "", false
	}
	return *h, true
}

// ComplianceStatus - итог проверки compliance в порядке, полученном от сервиса.
type ComplianceStatus struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
	Issues   []string `json:"issues"`
}

// GenerationResult - нормализованная модель результата для отображения.
type GenerationResult struct {
	GenerationID        string
	Body                ResultBody
	Compliance          ComplianceStatus
	TokensUsed          int
	SourcePrelandingIDs []string
	CreatedAt           time.Time
}

// DisplayText - текст для показа независимо от варианта.
func (r *GenerationResult) DisplayText() string {
	if r == nil || r.Body == nil {
		return ""
	}
	return r.Body.DisplayText()
}

// generationResultJSON - форма сериализации с явным дискриминатором kind.
type generationResultJSON struct {
	GenerationID        string           `json:"generation_id"`
	Kind                ResultKind       `json:"kind"`
	DisplayText         string           `json:"display_text"`
	Body                json.RawMessage  `json:"body"`
	Segments            []Segment        `json:"segments,omitempty"`
	Compliance          ComplianceStatus `json:"compliance"`
	TokensUsed          int              `json:"tokens_used"`
	SourcePrelandingIDs []string         `json:"source_prelanding_ids,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// MarshalJSON сериализует вариант вместе с дискриминатором.
func (r GenerationResult) MarshalJSON() ([]byte, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("generation result %s has no body", r.GenerationID)
	}
	body, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result body: %w", err)
	}
	out := generationResultJSON{
		GenerationID:        r.GenerationID,
		Kind:                r.Body.Kind(),
		DisplayText:         r.Body.DisplayText(),
		Body:                body,
		Compliance:          r.Compliance,
		TokensUsed:          r.TokensUsed,
		SourcePrelandingIDs: r.SourcePrelandingIDs,
		CreatedAt:           r.CreatedAt,
	}
	if sr, ok := r.Body.(ScenarioResult); ok {
		out.Segments = sr.Segments()
	}
	return json.Marshal(out)
}

// UnmarshalJSON восстанавливает вариант по полю kind.
func (r *GenerationResult) UnmarshalJSON(data []byte) error {
	var in generationResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case ResultKindFlat:
		var body FlatResult
		if err := json.Unmarshal(in.Body, &body); err != nil {
			return fmt.Errorf("invalid flat result body: %w", err)
		}
		r.Body = body
	case ResultKindScenario:
		var body ScenarioResult
		if err := json.Unmarshal(in.Body, &body); err != nil {
			return fmt.Errorf("invalid scenario result body: %w", err)
		}
		r.Body = body
	default:
		return fmt.Errorf("unknown result kind %q", in.Kind)
	}
	r.GenerationID = in.GenerationID
	r.Compliance = in.Compliance
	r.TokensUsed = in.TokensUsed
	r.SourcePrelandingIDs = in.SourcePrelandingIDs
	r.CreatedAt = in.CreatedAt
	return nil
}
