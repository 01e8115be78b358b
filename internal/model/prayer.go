package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoPrayers       = errors.New("dataset has no prayers")
	ErrInvalidPrayer   = errors.New("invalid prayer")
	ErrDuplicatePrayer = errors.New("duplicate prayer id")
)

// PrayerVersion is one rendition of a prayer's wording (regional or school variant).
type PrayerVersion struct {
	Name            string `json:"name"`
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
}

// Prayer is one guide entry. Versions is never empty once validated.
type Prayer struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category Category        `json:"category"`
	Versions []PrayerVersion `json:"versions"`
}

// Dataset mirrors the bundled data/prayers.json document.
type Dataset struct {
	Prayers []Prayer `json:"prayers"`
}

// previewLength is how many characters of the arabic text the overview shows.
const previewLength = 50

// Preview returns the first version's arabic text shortened for the overview list.
func (p Prayer) Preview() string {
	if len(p.Versions) == 0 {
		return ""
	}
	runes := []rune(p.Versions[0].Arabic)
	if len(runes) <= previewLength {
		return string(runes)
	}
	return string(runes[:previewLength]) + "..."
}

func (p Prayer) validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPrayer)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w %q: unknown category %q", ErrInvalidPrayer, p.ID, p.Category)
	}
	if len(p.Versions) == 0 {
		return fmt.Errorf("%w %q: no versions", ErrInvalidPrayer, p.ID)
	}
	return nil
}

// Validate checks the dataset invariants: at least one prayer, unique ids,
// known categories and at least one version per prayer.
func (d Dataset) Validate() error {
	if len(d.Prayers) == 0 {
		return ErrNoPrayers
	}
	seen := make(map[string]struct{}, len(d.Prayers))
	for _, p := range d.Prayers {
		if err := p.validate(); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicatePrayer, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Len and VersionCount let the dataset drive the navigation reducer.
func (d Dataset) Len() int { return len(d.Prayers) }

func (d Dataset) VersionCount(i int) int {
	if i < 0 || i >= len(d.Prayers) {
		return 0
	}
	return len(d.Prayers[i].Versions)
}

// Find returns the prayer with the given id and its position.
func (d Dataset) Find(id string) (Prayer, int, bool) {
	for i, p := range d.Prayers {
		if p.ID == id {
			return p, i, true
		}
	}
	return Prayer{}, -1, false
}
