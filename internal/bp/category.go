// Package bp holds the blood-pressure categorization rule.
package bp

// Category is the clinical bucket for a systolic/diastolic pair.
// Rank orders buckets by severity (0 = Normal .. 4 = Crisis) and Color
// is the hex color the UI renders the badge with.
type Category struct {
	Label string `json:"label"`
	Rank  int    `json:"rank"`
	Color string `json:"color"`
}

var (
	Normal   = Category{Label: "Normal", Rank: 0, Color: "#48bb78"}
	Elevated = Category{Label: "Elevated", Rank: 1, Color: "#ecc94b"}
	Stage1   = Category{Label: "High BP (Stage 1)", Rank: 2, Color: "#ed8936"}
	Stage2   = Category{Label: "High BP (Stage 2)", Rank: 3, Color: "#f56565"}
	Crisis   = Category{Label: "Hypertensive Crisis", Rank: 4, Color: "#c53030"}
)

// Categorize maps a reading to its category. Rules are checked in this
// exact order, first match wins. Note the OR in the stage 1 and 2 rules:
// a pair like (200, 70) lands in Stage 2 because diastolic < 120 holds
// even though systolic alone would be Crisis. That matches the product's
// shipped behavior and is kept as-is pending clinical review.
func Categorize(systolic, diastolic int) Category {
	switch {
	case systolic < 120 && diastolic < 80:
		return Normal
	case systolic < 130 && diastolic < 80:
		return Elevated
	case systolic < 140 || diastolic < 90:
		return Stage1
	case systolic < 180 || diastolic < 120:
		return Stage2
	default:
		return Crisis
	}
}
