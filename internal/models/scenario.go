package models

import (
	"fmt"
	"sort"
	"strings"
)

// Scenario - серверный шаблон трёхчастной генерации.
type Scenario struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	NameRu            string     `json:"name_ru"`
	Description       string     `json:"description"`
	BeginningTemplate string     `json:"beginning_template"`
	MiddleTemplate    string     `json:"middle_template"`
	EndTemplate       string     `json:"end_template"`
	Active            bool       `json:"active"`
	OrderIndex        int        `json:"order_index"`
	CreatedAt         *Timestamp `json:"created_at,omitempty"`
	UpdatedAt         *Timestamp `json:"updated_at,omitempty"`
}

// ScenarioDraft - частичные данные для создания или обновления сценария.
// Неустановленные (nil) поля не отправляются.
type ScenarioDraft struct {
	Name              *string `json:"name,omitempty"`
	NameRu            *string `json:"name_ru,omitempty"`
	Description       *string `json:"description,omitempty"`
	BeginningTemplate *string `json:"beginning_template,omitempty"`
	MiddleTemplate    *string `json:"middle_template,omitempty"`
	EndTemplate       *string `json:"end_template,omitempty"`
	Active            *bool   `json:"active,omitempty"`
	OrderIndex        *int    `json:"order_index,omitempty"`
}

// ValidateForCreate проверяет обязательные для создания поля.
func (d ScenarioDraft) ValidateForCreate() error {
	var missing []string
	check := func(name string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}
	check("name", d.Name)
	check("name_ru", d.NameRu)
	check("beginning_template", d.BeginningTemplate)
	check("middle_template", d.MiddleTemplate)
	check("end_template", d.EndTemplate)
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidScenario, strings.Join(missing, ", "))
	}
	return nil
}

// IsEmpty сообщает, что в черновике нет ни одного поля.
func (d ScenarioDraft) IsEmpty() bool {
	return d.Name == nil && d.NameRu == nil && d.Description == nil &&
		d.BeginningTemplate == nil && d.MiddleTemplate == nil && d.EndTemplate == nil &&
		d.Active == nil && d.OrderIndex == nil
}

// SortScenarios упорядочивает сценарии для отображения: order_index, затем id.
func SortScenarios(list []Scenario) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].OrderIndex != list[j].OrderIndex {
			return list[i].OrderIndex < list[j].OrderIndex
		}
		return list[i].ID < list[j].ID
	})
}

// CloneScenarios возвращает независимую копию списка.
func CloneScenarios(list []Scenario) []Scenario {
	if list == nil {
		return nil
	}
	out := make([]Scenario, len(list))
	copy(out, list)
	return out
}

// StringPtr - helper для заполнения черновиков.
func StringPtr(s string) *string { return &s }

// IntPtr - helper для заполнения черновиков.
func IntPtr(i int) *int { return &i }
