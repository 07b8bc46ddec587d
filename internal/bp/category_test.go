package bp

import "testing"

func TestCategorize_RuleOrder(t *testing.T) {
	cases := []struct {
		name      string
		systolic  int
		diastolic int
		want      Category
	}{
		{"normal", 115, 75, Normal},
		{"normal upper edge", 119, 79, Normal},
		{"elevated", 125, 79, Elevated},
		{"elevated systolic edge", 129, 79, Elevated},
		{"stage1 at systolic 120 diastolic 80", 120, 80, Stage1},
		{"stage1 via diastolic OR", 119, 85, Stage1},
		{"stage1 classic", 135, 88, Stage1},
		{"stage2 via diastolic OR", 200, 70, Stage2},
		{"stage2 classic", 160, 100, Stage2},
		{"stage2 just under crisis", 179, 119, Stage2},
		{"crisis", 185, 125, Crisis},
		{"crisis both over", 250, 150, Crisis},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Categorize(tc.systolic, tc.diastolic)
			if got != tc.want {
				t.Errorf("Categorize(%d, %d) = %q (rank %d), want %q (rank %d)",
					tc.systolic, tc.diastolic, got.Label, got.Rank, tc.want.Label, tc.want.Rank)
			}
		})
	}
}

// Every pair must land in some bucket, including values far outside the
// input-validation bounds. The rule is total by construction; this pins it.
func TestCategorize_Total(t *testing.T) {
	for _, sys := range []int{0, 50, 119, 120, 139, 140, 179, 180, 250, 1000} {
		for _, dia := range []int{0, 30, 79, 80, 89, 90, 119, 120, 150, 1000} {
			got := Categorize(sys, dia)
			if got.Label == "" || got.Rank < 0 || got.Rank > 4 {
				t.Fatalf("Categorize(%d, %d) returned invalid category %+v", sys, dia, got)
			}
		}
	}
}
