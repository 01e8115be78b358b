package packets

// RESPONSES FOR /api/admin/push

type PushResponse struct {
	Status   string `json:"status"`
	Operator string `json:"operator"`
	// Body is what subscribers will display, after the fallback rule.
	Body string `json:"body"`
}
