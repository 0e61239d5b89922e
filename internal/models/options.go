package models

// Option - значение перечисления с подписью для формы.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Hint  string `json:"hint,omitempty"`
}

// FormOptions - все перечисления формы генерации.
type FormOptions struct {
	Geos             []Option `json:"geos"`
	Languages        []Option `json:"languages"`
	Verticals        []Option `json:"verticals"`
	Personas         []Option `json:"personas"`
	ComplianceLevels []Option `json:"compliance_levels"`
	TargetLength     struct {
		Min  int `json:"min"`
		Max  int `json:"max"`
		Step int `json:"step"`
	} `json:"target_length"`
}

var geoOptions = []Option{
	{Value: "DE", Label: "🇩🇪 Deutschland", Hint: "Formal, data-driven"},
	{Value: "AT", Label: "🇦🇹 Österreich", Hint: "Warm, quality-focused"},
	{Value: "CH", Label: "🇨🇭 Schweiz", Hint: "Precise, CHF currency"},
	{Value: "FR", Label: "🇫🇷 France", Hint: "Elegant, intellectual"},
	{Value: "ES", Label: "🇪🇸 España", Hint: "Warm, emotional"},
	{Value: "IT", Label: "🇮🇹 Italia", Hint: "Passionate, lifestyle"},
	{Value: "UK", Label: "🇬🇧 United Kingdom", Hint: "GBP, understated"},
	{Value: "US", Label: "🇺🇸 United States", Hint: "Bold, USD"},
	{Value: "CA", Label: "🇨🇦 Canada", Hint: "Friendly, CAD"},
	{Value: "RU", Label: "🇷🇺 Россия", Hint: "Прямой, рубли"},
	{Value: "PL", Label: "🇵🇱 Polska", Hint: "Direct, PLN currency"},
	{Value: "NL", Label: "🇳🇱 Nederland", Hint: "No-nonsense, pragmatic"},
}

var languageOptions = []Option{
	{Value: "de", Label: "Немецкий (Deutsch)"},
	{Value: "en", Label: "Английский (English)"},
	{Value: "es", Label: "Испанский (Español)"},
	{Value: "fr", Label: "Французский (Français)"},
	{Value: "it", Label: "Итальянский (Italiano)"},
	{Value: "pl", Label: "Польский (Polski)"},
	{Value: "nl", Label: "Нидерландский (Nederlands)"},
	{Value: "ru", Label: "Русский"},
}

var verticalOptions = []Option{
	{Value: string(VerticalCrypto), Label: "Crypto"},
	{Value: string(VerticalFinance), Label: "Финансы"},
	{Value: string(VerticalForex), Label: "Forex"},
	{Value: string(VerticalInvestment), Label: "Инвестиции"},
}

var personaOptions = []Option{
	{Value: "aggressive_investigator", Label: "Агрессивный Журналист", Hint: "Разоблачающий стиль, провокационные вопросы, сенсационные заголовки"},
	{Value: "excited_fan", Label: "Восторженный Фанат", Hint: "Эмоциональный, восторженный, делится открытием с другом"},
	{Value: "skeptical_journalist", Label: "Скептичный Репортёр", Hint: "Сначала сомневается, потом убеждается фактами"},
	{Value: "experienced_expert", Label: "Опытный Эксперт", Hint: "Авторитетный тон, профессиональный анализ, данные"},
	{Value: "growth_marketer", Label: "Growth Маркетолог", Hint: "ROI, кейсы, метрики конверсии, A/B тесты"},
	{Value: "data_analyst", Label: "Аналитик Данных", Hint: "Цифры, статистика, графики, исследования"},
	{Value: "crypto_investor", Label: "Криптоинвестор", Hint: "Инсайды крипто-комьюнити, тренды, HODL культура"},
	{Value: "startup_founder", Label: "Стартапер", Hint: "Визионерство, disruption, growth story"},
	{Value: "financial_advisor", Label: "Финансовый Советник", Hint: "Консервативный подход, риски, долгосрочность"},
	{Value: "tech_blogger", Label: "Техноблогер", Hint: "Обзоры, туториалы, как это работает"},
	{Value: "lifestyle_influencer", Label: "Лайфстайл Инфлюенсер", Hint: "Личная история, трансформация, FOMO"},
	{Value: "skeptical_reviewer", Label: "Критический Ревьюер", Hint: "Честный обзор, все за и против"},
}

var complianceOptions = []Option{
	{Value: string(ComplianceStrict), Label: "Строгий (Facebook)"},
	{Value: string(ComplianceModerate), Label: "Умеренный"},
	{Value: string(ComplianceRelaxed), Label: "Свободный"},
}

// Options возвращает копию перечислений для заполнения формы.
func Options() FormOptions {
	opts := FormOptions{
		Geos:             append([]Option(nil), geoOptions...),
		Languages:        append([]Option(nil), languageOptions...),
		Verticals:        append([]Option(nil), verticalOptions...),
		Personas:         append([]Option(nil), personaOptions...),
		ComplianceLevels: append([]Option(nil), complianceOptions...),
	}
	opts.TargetLength.Min = MinTargetLength
	opts.TargetLength.Max = MaxTargetLength
	opts.TargetLength.Step = TargetLengthStep
	return opts
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func isKnownGeo(g Geo) bool                    { return hasOption(geoOptions, string(g)) }
func isKnownLanguage(l Language) bool          { return hasOption(languageOptions, string(l)) }
func isKnownVertical(v Vertical) bool          { return hasOption(verticalOptions, string(v)) }
func isKnownPersona(p Persona) bool            { return hasOption(personaOptions, string(p)) }
func isKnownCompliance(c ComplianceLevel) bool { return hasOption(complianceOptions, string(c)) }

// IsKnownGeo сообщает, поддерживается ли код страны.
func IsKnownGeo(g string) bool { return isKnownGeo(Geo(g)) }

// IsKnownLanguage сообщает, поддерживается ли код языка.
func IsKnownLanguage(l string) bool { return isKnownLanguage(Language(l)) }

// IsKnownVertical сообщает, поддерживается ли вертикаль.
func IsKnownVertical(v string) bool { return isKnownVertical(Vertical(v)) }
