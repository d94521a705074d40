package typoutil

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		max  int
		want int
	}{
		{"both empty", "", "", 2, 0},
		{"a empty", "", "role", 5, 4},
		{"identical", "company", "company", 2, 0},
		{"substitution", "descriptiom", "description", 2, 1},
		{"insertion", "descripion", "description", 2, 1},
		{"deletion", "linkedinn", "linkedin", 2, 1},
		{"transposition", "indede", "indeed", 2, 1},
		{"two edits", "infojob", "infojobs!", 2, 2},
		{"unicode", "résumé", "resume", 2, 2},
		{"length difference above limit", "role", "description", 2, 3},
		{"capped above limit", "monster", "indeed", 2, 3},
		{"zero limit", "role", "rule", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b, tt.max); got != tt.want {
				t.Errorf("Distance(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.max, got, tt.want)
			}
		})
	}
}

func TestClosest(t *testing.T) {
	header := []string{"Company", "Role", "Description", "Job Link"}

	tests := []struct {
		name   string
		term   string
		want   string
		wantOK bool
	}{
		{"typo", "Descripton", "Description", true},
		{"case and typo", "COMPANYY", "Company", true},
		{"transposed", "Rloe", "Role", true},
		{"exact match is not a suggestion", "role", "", false},
		{"nothing close", "Salary", "", false},
		{"blank", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.term, header, DefaultMaxDistance)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Closest(%q) = %q, %v; want %q, %v", tt.term, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
