package room

import "strings"

// Room is identified by its name; there is no surrogate id.
type Room struct {
	RoomName string `gorm:"column:room_name;type:varchar(100);primaryKey" json:"roomName"`
}

func (Room) TableName() string {
	return "rooms"
}

// Normalize trims surrounding whitespace from the name.
func (r *Room) Normalize() {
	r.RoomName = strings.TrimSpace(r.RoomName)
}
