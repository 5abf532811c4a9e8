package models

// VirtualAvatar holds the virtual-presence configuration for a participant
type VirtualAvatar struct {
	Role    string `json:"role,omitempty"`
	Bg      string `json:"bg,omitempty"`
	Enabled bool   `json:"enabled"`
}

// ParticipantSettings holds the per-participant audio/video preferences shared
// with the other occupants of a room
type ParticipantSettings struct {
	Name       string        `json:"name,omitempty"`
	Volume     int           `json:"volume"`             // 0-100
	Blur       float64       `json:"blur"`               // 0.0-1.0
	ScreenBlur float64       `json:"screenBlur"`         // 0.0-1.0
	Status     string        `json:"status,omitempty"`   // name of an active room status
	SocketID   string        `json:"socketId,omitempty"` // signaling connection id
	Virtual    VirtualAvatar `json:"virtual"`
}

// ParticipantUpdate is a partial update to a participant's settings.
// Nil fields are left untouched; last write wins, no versioning.
type ParticipantUpdate struct {
	Name       *string        `json:"name,omitempty"`
	Volume     *int           `json:"volume,omitempty"`
	Blur       *float64       `json:"blur,omitempty"`
	ScreenBlur *float64       `json:"screenBlur,omitempty"`
	Status     *string        `json:"status,omitempty"`
	SocketID   *string        `json:"socketId,omitempty"`
	Virtual    *VirtualAvatar `json:"virtual,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all
func (u *ParticipantUpdate) IsEmpty() bool {
	return u.Name == nil && u.Volume == nil && u.Blur == nil && u.ScreenBlur == nil &&
		u.Status == nil && u.SocketID == nil && u.Virtual == nil
}

// Apply shallow-merges the update into the settings. The virtual block is
// replaced wholesale when present, matching the shallow-merge contract.
func (s *ParticipantSettings) Apply(u *ParticipantUpdate) {
	if u == nil {
		return
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Volume != nil {
		s.Volume = *u.Volume
	}
	if u.Blur != nil {
		s.Blur = *u.Blur
	}
	if u.ScreenBlur != nil {
		s.ScreenBlur = *u.ScreenBlur
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.SocketID != nil {
		s.SocketID = *u.SocketID
	}
	if u.Virtual != nil {
		s.Virtual = *u.Virtual
	}
}

// RoomSettings is the registry entry for one room
type RoomSettings struct {
	Participants map[string]*ParticipantSettings `json:"participants"`
	Status       []Status                        `json:"status,omitempty"`
}

// NewRoomSettings creates an empty registry entry
func NewRoomSettings() *RoomSettings {
	return &RoomSettings{
		Participants: make(map[string]*ParticipantSettings),
	}
}

// ParticipantIDs returns the ids of all participants in the room
func (r *RoomSettings) ParticipantIDs() []string {
	ids := make([]string, 0, len(r.Participants))
	for id := range r.Participants {
		ids = append(ids, id)
	}
	return ids
}
