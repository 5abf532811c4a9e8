package models

// Status is a room-scoped custom presence tag created by a participant and
// shared with the other occupants. Name is unique within a room.
type Status struct {
	ID         string  `json:"id"`
	Creator    string  `json:"creator"`
	Name       string  `json:"name"`
	Desc       string  `json:"desc,omitempty"`
	Icon       string  `json:"icon,omitempty"`
	Volume     int     `json:"volume"`
	Blur       float64 `json:"blur"`
	ScreenBlur float64 `json:"screenBlur"`
}
