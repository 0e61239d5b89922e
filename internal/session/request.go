package session

import (
	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// Request - тело запроса на генерацию вместе с эндпоинтом, куда его отправлять.
type Request interface {
	Endpoint() string
}

// FlatRequest передаёт конфигурацию целиком, без изменений.
type FlatRequest struct {
	models.GenerationConfig
}

func (FlatRequest) Endpoint() string { return client.EndpointFlat }

// ScenarioRequest - запрос трёхчастной генерации. Полей target_length и format
// в нём нет: длину и формат задаёт сценарий.
type ScenarioRequest struct {
	ScenarioID      int64                  `json:"scenario_id"`
	Geo             models.Geo             `json:"geo"`
	Language        models.Language        `json:"language"`
	Vertical        models.Vertical        `json:"vertical"`
	Offer           string                 `json:"offer"`
	Persona         models.Persona         `json:"persona"`
	ComplianceLevel models.ComplianceLevel `json:"compliance_level"`
	UseRAG          bool                   `json:"use_rag"`
}

func (ScenarioRequest) Endpoint() string { return client.EndpointScenario }

// BuildRequest выбирает форму запроса по наличию сценария в конфигурации.
func BuildRequest(cfg models.GenerationConfig) Request {
	if cfg.ScenarioID != nil {
		return ScenarioRequest{
			ScenarioID:      *cfg.ScenarioID,
			Geo:             cfg.Geo,
			Language:        cfg.Language,
			Vertical:        cfg.Vertical,
			Offer:           cfg.Offer,
			Persona:         cfg.Persona,
			ComplianceLevel: cfg.ComplianceLevel,
			UseRAG:          cfg.UseRAG,
		}
	}
	return FlatRequest{GenerationConfig: cfg.Clone()}
}
