package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewEmptyCategoryStats(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()
	if stats.Version != 1 {
		t.Errorf("Expected version 1, got %d", stats.Version)
	}
	if len(stats.Categories) != 0 {
		t.Errorf("Expected no categories, got %d", len(stats.Categories))
	}
}

func TestParseCategoryStats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		payload     string
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid payload",
			payload: `{"version":1,"categories":{"CCNA":{"correct":8,"total":10,"accuracy":80}}}`,
		},
		{
			name:    "valid empty categories",
			payload: `{"version":2,"categories":{}}`,
		},
		{
			name:        "malformed JSON",
			payload:     `{"version":`,
			wantErr:     true,
			errContains: "invalid category stats payload",
		},
		{
			name:        "zero version",
			payload:     `{"version":0,"categories":{}}`,
			wantErr:     true,
			errContains: "version must be a positive integer",
		},
		{
			name:        "missing categories object",
			payload:     `{"version":1}`,
			wantErr:     true,
			errContains: "categories object is missing",
		},
		{
			name:        "negative correct names the category",
			payload:     `{"version":1,"categories":{"CCNA":{"correct":-1,"total":10,"accuracy":0}}}`,
			wantErr:     true,
			errContains: `category "CCNA" has negative correct count`,
		},
		{
			name:        "negative total names the category",
			payload:     `{"version":1,"categories":{"Security":{"correct":0,"total":-2,"accuracy":0}}}`,
			wantErr:     true,
			errContains: `category "Security" has negative total count`,
		},
		{
			name:        "accuracy out of range names the category",
			payload:     `{"version":1,"categories":{"Linux":{"correct":1,"total":1,"accuracy":101}}}`,
			wantErr:     true,
			errContains: `category "Linux" has accuracy 101`,
		},
		{
			name:        "non-integer count",
			payload:     `{"version":1,"categories":{"CCNA":{"correct":"eight","total":10,"accuracy":80}}}`,
			wantErr:     true,
			errContains: "invalid category stats payload",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stats, err := ParseCategoryStats([]byte(tc.payload))

			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error, got none")
				}
				if !errors.Is(err, ErrInvalidCategoryStats) {
					t.Errorf("Expected ErrInvalidCategoryStats, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.errContains) {
					t.Errorf("Expected error containing %q, got %q", tc.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if stats.Categories == nil {
				t.Error("Expected a non-nil categories map")
			}
		})
	}
}

func TestUpdateCategoryReplacesWholesale(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()

	stats, err := stats.UpdateCategory("CCNA", 8, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	record, ok := stats.Category("CCNA")
	if !ok {
		t.Fatal("Expected CCNA entry to exist")
	}
	if record.Correct != 8 || record.Total != 10 || record.Accuracy != 80 {
		t.Errorf("Expected {8 10 80}, got %+v", record)
	}

	// The entry is replaced, not merged.
	stats, err = stats.UpdateCategory("CCNA", 1, 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	record, _ = stats.Category("CCNA")
	if record.Correct != 1 || record.Total != 2 || record.Accuracy != 50 {
		t.Errorf("Expected {1 2 50}, got %+v", record)
	}

	if _, err := stats.UpdateCategory("CCNA", -1, 2); !errors.Is(err, ErrNegativeCategoryCount) {
		t.Errorf("Expected ErrNegativeCategoryCount, got %v", err)
	}
}

func TestUpdateCategoryDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	original := NewEmptyCategoryStats()
	updated, err := original.UpdateCategory("Linux", 3, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, ok := original.Category("Linux"); ok {
		t.Error("UpdateCategory mutated the receiver")
	}
	if _, ok := updated.Category("Linux"); !ok {
		t.Error("Expected Linux entry in the updated stats")
	}
}

func TestIncrementCategory(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()

	// Unknown categories start from zero.
	stats, err := stats.IncrementCategory("CCNA", true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	record, _ := stats.Category("CCNA")
	if record.Correct != 1 || record.Total != 1 || record.Accuracy != 100 {
		t.Errorf("Expected {1 1 100}, got %+v", record)
	}

	stats, err = stats.IncrementCategory("CCNA", false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	record, _ = stats.Category("CCNA")
	if record.Correct != 1 || record.Total != 2 || record.Accuracy != 50 {
		t.Errorf("Expected {1 2 50}, got %+v", record)
	}
}

func TestCategoryLookupUnknown(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()
	if _, ok := stats.Category("never-seen"); ok {
		t.Error("Expected unknown category lookup to report not found")
	}
}

func TestAllCategoriesReturnsCopy(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()
	stats, err := stats.UpdateCategory("CCNA", 8, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	all := stats.AllCategories()
	all["CCNA"] = CategoryRecord{}

	record, _ := stats.Category("CCNA")
	if record.Correct != 8 {
		t.Error("Mutating the returned map affected the stats")
	}
}

func TestCategoryStatsPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	stats := NewEmptyCategoryStats()
	stats, err := stats.UpdateCategory("CCNA", 14, 20)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	payload, err := stats.MarshalPayload()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	restored, err := ParseCategoryStats(payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	record, ok := restored.Category("CCNA")
	if !ok {
		t.Fatal("Expected CCNA entry after round trip")
	}
	if record.Correct != 14 || record.Total != 20 || record.Accuracy != 70 {
		t.Errorf("Expected {14 20 70}, got %+v", record)
	}
}
