package model

// Category tags a prayer for display only.
type Category string

const (
	CategoryOpening    Category = "opening"
	CategoryRecitation Category = "recitation"
	CategoryMovement   Category = "movement"
	CategorySitting    Category = "sitting"
	CategoryClosing    Category = "closing"
)

var categoryLabels = map[Category]string{
	CategoryOpening:    "Pembukaan",
	CategoryRecitation: "Bacaan",
	CategoryMovement:   "Gerakan",
	CategorySitting:    "Duduk",
	CategoryClosing:    "Penutup",
}

// colour tokens used by the shell stylesheet
var categoryColors = map[Category]string{
	CategoryOpening:    "green",
	CategoryRecitation: "blue",
	CategoryMovement:   "purple",
	CategorySitting:    "orange",
	CategoryClosing:    "red",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the Indonesian name shown on the badge.
func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) Color() string {
	return categoryColors[c]
}
