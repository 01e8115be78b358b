package packets

// RESPONSES FOR /api/prayers/* and /api/navigation

// PrayerSummary is one row of the overview list.
type PrayerSummary struct {
	Index         int    `json:"index"`
	ID            string `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	Preview       string `json:"preview"`
	Versions      int    `json:"versions"`
}

type VersionResponse struct {
	Index           int    `json:"index"`
	Name            string `json:"name"`
	Arabic          string `json:"arabic"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
}

type PrayerResponse struct {
	Index         int               `json:"index"`
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Category      string            `json:"category"`
	CategoryLabel string            `json:"category_label"`
	Versions      []VersionResponse `json:"versions"`
}

// NavigationResponse carries the new state and what it shows. Position reads like "2 dari 9".
type NavigationResponse struct {
	State    StatePacket     `json:"state"`
	Position string          `json:"position"`
	Prayer   PrayerSummary   `json:"prayer"`
	Version  VersionResponse `json:"version"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Prayers int    `json:"prayers"`
}
