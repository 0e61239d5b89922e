package models

import (
	"fmt"
	"strings"
)

// NameRequest - параметры генератора имён.
type NameRequest struct {
	Geo             string `json:"geo"`
	Gender          string `json:"gender"`
	Count           int    `json:"count"`
	IncludeNickname bool   `json:"include_nickname"`
}

// NameRecord - одно сгенерированное имя. Хранится только в состоянии панели.
type NameRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Nickname  string `json:"nickname,omitempty"`
	Gender    string `json:"gender"`
}

// ReviewRequest - параметры генератора отзывов.
type ReviewRequest struct {
	Geo      string       `json:"geo"`
	Language string       `json:"language"`
	Vertical string       `json:"vertical"`
	Length   string       `json:"length"`
	Count    int          `json:"count"`
	Names    []NameRecord `json:"names,omitempty"`
}

// ReviewRecord - один сгенерированный отзыв.
type ReviewRecord struct {
	AuthorName            string   `json:"author_name"`
	Text                  string   `json:"text"`
	Rating                int      `json:"rating"`
	Amount                *float64 `json:"amount,omitempty"`
	Currency              string   `json:"currency,omitempty"`
	ScreenshotDescription string   `json:"screenshot_description,omitempty"`
}

// Границы генераторов
const (
	MaxNameCount   = 50
	MaxReviewCount = 20
)

// Validate проверяет параметры генератора имён.
func (r NameRequest) Validate() error {
	switch r.Gender {
	case "male", "female", "random":
	default:
		return fmt.Errorf("%w: gender must be male, female or random", ErrInvalidGeneratorRequest)
	}
	if r.Count < 1 || r.Count > MaxNameCount {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidGeneratorRequest, MaxNameCount)
	}
	if !IsKnownGeo(r.Geo) {
		return fmt.Errorf("%w: unknown geo %q", ErrInvalidGeneratorRequest, r.Geo)
	}
	return nil
}

// Validate проверяет параметры генератора отзывов.
func (r ReviewRequest) Validate() error {
	switch r.Length {
	case "short", "medium":
	default:
		return fmt.Errorf("%w: length must be short or medium", ErrInvalidGeneratorRequest)
	}
	if r.Count < 1 || r.Count > MaxReviewCount {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidGeneratorRequest, MaxReviewCount)
	}
	if !IsKnownGeo(r.Geo) {
		return fmt.Errorf("%w: unknown geo %q", ErrInvalidGeneratorRequest, r.Geo)
	}
	if !IsKnownLanguage(r.Language) {
		return fmt.Errorf("%w: unknown language %q", ErrInvalidGeneratorRequest, r.Language)
	}
	if !IsKnownVertical(r.Vertical) {
		return fmt.Errorf("%w: unknown vertical %q", ErrInvalidGeneratorRequest, r.Vertical)
	}
	return nil
}

// FormatNames готовит список имён для копирования в буфер обмена:
// "Имя Фамилия (@ник) [пол]" по одному на строку.
func FormatNames(names []NameRecord) string {
	lines := make([]string, 0, len(names))
	for _, n := range names {
		line := n.FirstName + " " + n.LastName
		if n.Nickname != "" {
			line += " (@" + n.Nickname + ")"
		}
		line += " [" + n.Gender + "]"
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
