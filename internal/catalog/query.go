package catalog

import (
	"sort"
	"strings"

	"prelanding-studio/internal/models"
)

// Query - клиентские фильтры библиотеки. Пустое поле означает "без фильтра".
type Query struct {
	Search   string `json:"search" form:"search"`
	Geo      string `json:"geo" form:"geo"`
	Language string `json:"language" form:"language"`
}

// FacetCount - значение и количество записей с ним.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets - распределение записей по вертикали, гео и языку.
type Facets struct {
	Verticals []FacetCount `json:"verticals"`
	Geos      []FacetCount `json:"geos"`
	Languages []FacetCount `json:"languages"`
}

// Filter возвращает новые записи, удовлетворяющие всем условиям запроса.
// Поиск - подстрока без учёта регистра по id, имени и тегам.
func Filter(entries []models.CatalogEntry, q Query) []models.CatalogEntry {
	needle := strings.ToLower(q.Search)
	out := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if q.Geo != "" && e.Geo != q.Geo {
			continue
		}
		if q.Language != "" && e.Language != q.Language {
			continue
		}
		if needle != "" && !matchesSearch(e, needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesSearch(e models.CatalogEntry, needle string) bool {
	if strings.Contains(strings.ToLower(e.ID), needle) {
		return true
	}
	if e.Name != nil && strings.Contains(strings.ToLower(*e.Name), needle) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Paginate возвращает срез [(page-1)*size, page*size).
// За пределами данных, при page < 1 или size <= 0 - пустой срез.
func Paginate(entries []models.CatalogEntry, pageSize, page int) []models.CatalogEntry {
	if pageSize <= 0 || page < 1 {
		return []models.CatalogEntry{}
	}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []models.CatalogEntry{}
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	out := make([]models.CatalogEntry, end-start)
	copy(out, entries[start:end])
	return out
}

// TotalPages - количество страниц для n записей.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Aggregate считает распределения по полному набору записей.
// Сортировка: по убыванию количества, при равенстве - по значению.
func Aggregate(entries []models.CatalogEntry) Facets {
	verticals := make(map[string]int)
	geos := make(map[string]int)
	languages := make(map[string]int)
	for _, e := range entries {
		verticals[e.Vertical]++
		geos[e.Geo]++
		languages[e.Language]++
	}
	return Facets{
		Verticals: sortedCounts(verticals),
		Geos:      sortedCounts(geos),
		Languages: sortedCounts(languages),
	}
}

func sortedCounts(m map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(m))
	for v, n := range m {
		out = append(out, FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
