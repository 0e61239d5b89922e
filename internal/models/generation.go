package models

import (
	"fmt"
	"strings"
)

// Geo - код целевой страны.
type Geo string

// Language - код языка генерации.
type Language string

// Vertical - товарная вертикаль оффера.
type Vertical string

// Persona - стиль автора текста.
type Persona string

// ComplianceLevel - строгость проверки текста на соответствие правилам рекламных площадок.
type ComplianceLevel string

// Допустимые вертикали
const (
	VerticalCrypto     Vertical = "crypto"
	VerticalFinance    Vertical = "finance"
	VerticalForex      Vertical = "forex"
	VerticalInvestment Vertical = "investment"
)

// Уровни compliance
const (
	ComplianceStrict   ComplianceLevel = "strict_facebook"
	ComplianceModerate ComplianceLevel = "moderate"
	ComplianceRelaxed  ComplianceLevel = "relaxed"
)

// Ограничения длины текста (в словах), совпадают со слайдером формы.
const (
	MinTargetLength  = 400
	MaxTargetLength  = 5000
	TargetLengthStep = 50
)

// GenerationConfig - изменяемая пользователем конфигурация запроса на генерацию.
// ScenarioID == nil означает плоский (flat) режим.
type GenerationConfig struct {
	Geo             Geo             `json:"geo"`
	Language        Language        `json:"language"`
	Vertical        Vertical        `json:"vertical"`
	Offer           string          `json:"offer"`
	Persona         Persona         `json:"persona"`
	ScenarioID      *int64          `json:"scenario_id,omitempty"`
	ComplianceLevel ComplianceLevel `json:"compliance_level"`
	Format          string          `json:"format"`
	TargetLength    int             `json:"target_length"`
	UseRAG          bool            `json:"use_rag"`
}

// DefaultGenerationConfig возвращает значения формы по умолчанию.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Geo:             "DE",
		Language:        "de",
		Vertical:        VerticalCrypto,
		Persona:         "aggressive_investigator",
		ComplianceLevel: ComplianceStrict,
		Format:          "interview",
		TargetLength:    800,
		UseRAG:          true,
	}
}

// HasScenario сообщает, выбран ли сценарий.
func (c GenerationConfig) HasScenario() bool {
	return c.ScenarioID != nil
}

// Clone возвращает копию без общих указателей.
func (c GenerationConfig) Clone() GenerationConfig {
	out := c
	if c.ScenarioID != nil {
		id := *c.ScenarioID
		out.ScenarioID = &id
	}
	return out
}

// SnapTargetLength приводит длину к допустимому значению слайдера:
// ограничивает диапазоном [400, 5000] и округляет до шага 50.
func SnapTargetLength(n int) int {
	if n < MinTargetLength {
		return MinTargetLength
	}
	if n > MaxTargetLength {
		return MaxTargetLength
	}
	rem := (n - MinTargetLength) % TargetLengthStep
	if rem*2 >= TargetLengthStep {
		n += TargetLengthStep - rem
	} else {
		n -= rem
	}
	return n
}

// Validate проверяет значения перечислений и обязательный оффер.
// Пустой оффер возвращает ErrOfferRequired, остальное - ErrInvalidConfig.
func (c GenerationConfig) Validate() error {
	if strings.TrimSpace(c.Offer) == "" {
		return ErrOfferRequired
	}
	return c.ValidateFields()
}

// ValidateFields проверяет всё, кроме оффера. Используется при редактировании формы,
// когда оффер ещё может быть пустым.
func (c GenerationConfig) ValidateFields() error {
	var problems []string
	if !isKnownGeo(c.Geo) {
		problems = append(problems, fmt.Sprintf("unknown geo %q", c.Geo))
	}
	if !isKnownLanguage(c.Language) {
		problems = append(problems, fmt.Sprintf("unknown language %q", c.Language))
	}
	if !isKnownVertical(c.Vertical) {
		problems = append(problems, fmt.Sprintf("unknown vertical %q", c.Vertical))
	}
	if !isKnownPersona(c.Persona) {
		problems = append(problems, fmt.Sprintf("unknown persona %q", c.Persona))
	}
	if !isKnownCompliance(c.ComplianceLevel) {
		problems = append(problems, fmt.Sprintf("unknown compliance level %q", c.ComplianceLevel))
	}
	if c.TargetLength < MinTargetLength || c.TargetLength > MaxTargetLength {
		problems = append(problems, fmt.Sprintf("target length %d out of range [%d, %d]", c.TargetLength, MinTargetLength, MaxTargetLength))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
