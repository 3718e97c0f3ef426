package domain

import "testing"

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"spaced", "Planers, Jointers, Shop Tour 1", []string{"Planers", "Jointers", "Shop Tour 1"}},
		{"single", "Clamps", []string{"Clamps"}},
		{"empty segments", "Saws,, Blades,", []string{"Saws", "Blades"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTags(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d tags, got %v", len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("tag[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGroupProductsExcludesLastTag(t *testing.T) {
	p := Product{ID: 1, Title: "Helical Head", Tags: SplitTags("Planers, Jointers, Shop Tour 1")}

	grouped := GroupProducts([]Product{p})

	if len(grouped) != 2 {
		t.Fatalf("Expected 2 groups, got %d: %v", len(grouped), grouped)
	}
	if _, ok := grouped["Planers"]; !ok {
		t.Error("Missing Planers group")
	}
	if _, ok := grouped["Jointers"]; !ok {
		t.Error("Missing Jointers group")
	}
	if _, ok := grouped["Shop Tour 1"]; ok {
		t.Error("Last tag must be excluded from grouping")
	}
}

func TestGroupProductsSingleTagProductHasNoGroups(t *testing.T) {
	p := Product{ID: 2, Title: "Bar Clamp", Tags: []string{"Clamps"}}

	grouped := GroupProducts([]Product{p})

	if len(grouped) != 0 {
		t.Errorf("Single-tag product should not be grouped, got %v", grouped)
	}
}
