package model

// RoomType describes one category of room in the fixed inventory and how
// many physical rooms of that category exist. The store accepts arbitrary
// type strings at seed time; booking validation restricts guests to the
// closed set in booking.go.
//
// Fields:
//
//	Name       – identifier such as "single", "double", "suite".
//	TotalCount – number of rooms seeded for this type, never negative.
type RoomType struct {
	Name       string `json:"name"`        // room_types.room_type
	TotalCount int    `json:"total_count"` // room_types.total_count
}

// Room is one physical room. Rooms are created once at bootstrap, never
// deleted and never change type. Whether a room is free for a date range
// is derived from the reservation set; Available only mirrors the cached
// rooms.is_available hint.
//
// Fields:
//
//	ID        – primary key, monotonic, never reused.
//	RoomType  – references RoomType.Name.
//	Available – cached hint, true when the room has no reservations.
type Room struct {
	ID        uint64 // rooms.id
	RoomType  string // rooms.room_type
	Available bool   // rooms.is_available (hint only)
}
