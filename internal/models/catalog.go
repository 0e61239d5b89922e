package models

// PatternProfile - результат серверного анализа паттернов prelanding'а.
type PatternProfile struct {
	Tone                 string         `json:"tone"`
	Triggers             map[string]int `json:"triggers"`
	PersuasionTechniques []string       `json:"persuasion_techniques"`
}

// CatalogEntry - запись библиотеки эталонных prelanding'ов. Клиент её не редактирует.
type CatalogEntry struct {
	ID             string          `json:"id"`
	Name           *string         `json:"name,omitempty"`
	Geo            string          `json:"geo"`
	Language       string          `json:"language"`
	Vertical       string          `json:"vertical"`
	Format         string          `json:"format"`
	Status         string          `json:"status"`
	Tags           []string        `json:"tags"`
	CTRToLanding   *float64        `json:"ctr_to_landing,omitempty"`
	LeadRate       *float64        `json:"lead_rate,omitempty"`
	DepositRate    *float64        `json:"deposit_rate,omitempty"`
	DateAdded      Timestamp       `json:"date_added"`
	PatternProfile *PatternProfile `json:"pattern_profile,omitempty"`
}

// DisplayName возвращает имя, а если его нет - id.
func (e CatalogEntry) DisplayName() string {
	if e.Name != nil && *e.Name != "" {
		return *e.Name
	}
	return e.ID
}

// UploadSummary - ответ сервиса на загрузку архива.
type UploadSummary struct {
	Success           bool   `json:"success"`
	PrelandingID      string `json:"prelanding_id"`
	Name              string `json:"name"`
	Message           string `json:"message"`
	HTMLFound         string `json:"html_found,omitempty"`
	ScreenshotsCount  int    `json:"screenshots_count"`
	ElementsExtracted int    `json:"elements_extracted"`
	VerticalDetected  string `json:"vertical_detected"`
}

// TopQuery - параметры выборки лучших prelanding'ов по метрике.
type TopQuery struct {
	Metric   string
	Geo      string
	Vertical string
	Limit    int
}
