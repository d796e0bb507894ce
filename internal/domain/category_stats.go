package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CategoryStatsVersion is the current schema version of the persisted
// category-stats payload.
const CategoryStatsVersion = 1

// CategoryStats-specific validation errors.
var (
	ErrInvalidCategoryStats  = errors.New("invalid category stats payload")
	ErrNegativeCategoryCount = errors.New("category counts cannot be negative")
)

// CategoryRecord holds the running performance numbers for one category.
type CategoryRecord struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// CategoryStats is a keyed collection of per-category performance records.
// The key set grows monotonically as new categories are encountered;
// existing entries are replaced wholesale on update, never merged
// field-by-field.
//
// Note: the per-category correct <= total cross-check is intentionally not
// enforced here. The aggregate-level invariant covers the overall totals
// only; see the restore path in UserProgressFromPersistence.
type CategoryStats struct {
	Version    int                       `json:"version"`
	Categories map[string]CategoryRecord `json:"categories"`
}

// NewEmptyCategoryStats returns a versioned, empty collection.
func NewEmptyCategoryStats() CategoryStats {
	return CategoryStats{
		Version:    CategoryStatsVersion,
		Categories: make(map[string]CategoryRecord),
	}
}

// ParseCategoryStats structurally validates an untrusted payload, typically
// a JSONB column read back from storage. It requires a positive integer
// version and a categories object whose every entry carries non-negative
// correct/total counts and an accuracy in [0, 100]. Violations produce a
// descriptive error naming the offending category key.
func ParseCategoryStats(raw []byte) (CategoryStats, error) {
	var stats CategoryStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return CategoryStats{}, fmt.Errorf("%w: %v", ErrInvalidCategoryStats, err)
	}

	if stats.Version < 1 {
		return CategoryStats{}, fmt.Errorf("%w: version must be a positive integer, got %d",
			ErrInvalidCategoryStats, stats.Version)
	}
	if stats.Categories == nil {
		return CategoryStats{}, fmt.Errorf("%w: categories object is missing", ErrInvalidCategoryStats)
	}

	for name, record := range stats.Categories {
		if record.Correct < 0 {
			return CategoryStats{}, fmt.Errorf("%w: category %q has negative correct count %d",
				ErrInvalidCategoryStats, name, record.Correct)
		}
		if record.Total < 0 {
			return CategoryStats{}, fmt.Errorf("%w: category %q has negative total count %d",
				ErrInvalidCategoryStats, name, record.Total)
		}
		if record.Accuracy < 0 || record.Accuracy > 100 {
			return CategoryStats{}, fmt.Errorf("%w: category %q has accuracy %v outside [0, 100]",
				ErrInvalidCategoryStats, name, record.Accuracy)
		}
	}

	return stats, nil
}

// UpdateCategory returns a new CategoryStats with the named entry replaced
// by the given counts and a freshly derived accuracy.
func (c CategoryStats) UpdateCategory(name string, correct, total int) (CategoryStats, error) {
	if correct < 0 || total < 0 {
		return CategoryStats{}, ErrNegativeCategoryCount
	}

	categories := c.copyCategories()
	categories[name] = CategoryRecord{
		Correct:  correct,
		Total:    total,
		Accuracy: AccuracyFromQuizResults(correct, total).Float(),
	}

	return CategoryStats{Version: c.Version, Categories: categories}, nil
}

// IncrementCategory records a single answered question in the named
// category: one attempt, plus one correct answer when isCorrect is true.
// Unknown categories start from zero counts.
func (c CategoryStats) IncrementCategory(name string, isCorrect bool) (CategoryStats, error) {
	record := c.Categories[name]
	correct := record.Correct
	if isCorrect {
		correct++
	}
	return c.UpdateCategory(name, correct, record.Total+1)
}

// Category looks up the record for the named category. The second return
// value is false when the category has never been seen.
func (c CategoryStats) Category(name string) (CategoryRecord, bool) {
	record, ok := c.Categories[name]
	return record, ok
}

// AllCategories returns a copy of the category map, safe for the caller to
// iterate or modify.
func (c CategoryStats) AllCategories() map[string]CategoryRecord {
	return c.copyCategories()
}

// MarshalPayload serializes the stats for a JSON-capable storage column.
func (c CategoryStats) MarshalPayload() ([]byte, error) {
	return json.Marshal(c)
}

func (c CategoryStats) copyCategories() map[string]CategoryRecord {
	categories := make(map[string]CategoryRecord, len(c.Categories))
	for name, record := range c.Categories {
		categories[name] = record
	}
	return categories
}
