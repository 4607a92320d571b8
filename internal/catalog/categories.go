package catalog

import (
	"strings"

	"github.com/skillcatalog/indexer/internal/models"
)

// MatchCategories looks up every keyword in the static taxonomy against a
// skill's name, description, and triggers (keywords/languages), returning
// the slugs of every category that matched. This is never semantic or
// ML-driven — a plain substring scan against a fixed list.
func MatchCategories(skill *models.Skill) []string {
	haystack := strings.ToLower(strings.Join([]string{
		skill.Name,
		skill.Description,
		strings.Join(skill.Triggers.Keywords, " "),
		strings.Join(skill.Triggers.Languages, " "),
	}, " "))

	var slugs []string
	seen := make(map[string]bool)

	for _, kind := range models.AllCategoryKinds() {
		for _, keyword := range models.CategoryKeywords[kind] {
			if !strings.Contains(haystack, keyword) {
				continue
			}
			slug := slugFor(kind, keyword)
			if seen[slug] {
				continue
			}
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}

	return slugs
}

func slugFor(kind models.CategoryKind, keyword string) string {
	return string(kind) + ":" + keyword
}

// AllCategories returns every category row in the static taxonomy, keyed
// by slug, so the join table always has valid foreign keys to point at
// regardless of crawl order.
func AllCategories() []models.Category {
	var categories []models.Category
	seen := make(map[string]bool)

	for _, kind := range models.AllCategoryKinds() {
		for _, keyword := range models.CategoryKeywords[kind] {
			slug := slugFor(kind, keyword)
			if seen[slug] {
				continue
			}
			seen[slug] = true
			categories = append(categories, models.Category{
				ID:   slug,
				Name: keyword,
				Slug: slug,
				Kind: string(kind),
			})
		}
	}

	return categories
}
