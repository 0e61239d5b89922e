package models

// FeedbackMetrics - фактические метрики, собранные по опубликованному тексту.
type FeedbackMetrics struct {
	CTRToLanding *float64 `json:"ctr_to_landing,omitempty"`
	LeadRate     *float64 `json:"lead_rate,omitempty"`
	DepositRate  *float64 `json:"deposit_rate,omitempty"`
	BanRate      float64  `json:"ban_rate"`
	Impressions  *int     `json:"impressions,omitempty"`
	Clicks       *int     `json:"clicks,omitempty"`
}

// FeedbackSubmission - тело запроса обратной связи по генерации.
type FeedbackSubmission struct {
	GenerationID string `json:"gen_id"`
	FeedbackMetrics
}

// FeedbackResponse - ответ сервиса. При высоком lead rate генерация
// автоматически попадает в библиотеку эталонов.
type FeedbackResponse struct {
	Success              bool    `json:"success"`
	Message              string  `json:"message"`
	PromotedToSource     bool    `json:"promoted_to_source"`
	PromotedPrelandingID *string `json:"promoted_prelanding_id,omitempty"`
}

// FeedbackRecord - одна запись истории метрик генерации.
type FeedbackRecord struct {
	LeadRate     *float64   `json:"lead_rate,omitempty"`
	CTRToLanding *float64   `json:"ctr_to_landing,omitempty"`
	DepositRate  *float64   `json:"deposit_rate,omitempty"`
	BanRate      *float64   `json:"ban_rate,omitempty"`
	SubmittedAt  *Timestamp `json:"submitted_at,omitempty"`
}

// FeedbackHistory - вся обратная связь по генерации, новые записи первыми.
type FeedbackHistory struct {
	GenerationID  string           `json:"gen_id"`
	FeedbackCount int              `json:"feedback_count"`
	Feedback      []FeedbackRecord `json:"feedback"`
}
