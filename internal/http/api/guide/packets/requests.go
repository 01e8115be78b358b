package packets

// REQUESTS FOR /api/navigation

// StatePacket is the wire form of navigation.State.
type StatePacket struct {
	Prayer  int    `json:"prayer"`
	Version int    `json:"version"`
	Mode    string `json:"mode"`
}

type ActionPacket struct {
	Type  string `json:"type" binding:"required"`
	Index *int   `json:"index"`
}

type NavigationRequest struct {
	State  StatePacket  `json:"state"`
	Action ActionPacket `json:"action" binding:"required"`
}
