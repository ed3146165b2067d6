package core

import "time"

// Member is a value copy of one room membership entry.
type Member struct {
	EndpointID string
	Username   string
}

// Room groups endpoints engaged in the same session.
type Room struct {
	ID        string
	CreatedAt time.Time
	members   []Member
}

func (r *Room) indexOf(endpointID string) int {
	for i, m := range r.members {
		if m.EndpointID == endpointID {
			return i
		}
	}
	return -1
}

// Members returns a snapshot of the room members in join order.
func (r *Room) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Empty returns true if no endpoints are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// RoomRegistry maps room ids to rooms. A room is present only while it has
// at least one member. Not safe for concurrent use; the hub goroutine owns it.
type RoomRegistry struct {
	rooms map[string]*Room
	now   func() time.Time
}

// NewRoomRegistry builds an empty registry. now defaults to time.Now.
func NewRoomRegistry(now func() time.Time) *RoomRegistry {
	if now == nil {
		now = time.Now
	}
	return &RoomRegistry{
		rooms: make(map[string]*Room),
		now:   now,
	}
}

// Ensure returns the room with the given id, creating it if absent.
func (r *RoomRegistry) Ensure(roomID string) *Room {
	if room, ok := r.rooms[roomID]; ok {
		return room
	}
	room := &Room{ID: roomID, CreatedAt: r.now()}
	r.rooms[roomID] = room
	return room
}

// Get looks up a room without creating it.
func (r *RoomRegistry) Get(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// AddMember appends the endpoint to the room. Returns true if newly added;
// an existing entry for the same endpoint is left untouched.
func (r *RoomRegistry) AddMember(roomID, endpointID, username string) bool {
	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	if room.indexOf(endpointID) >= 0 {
		return false
	}
	room.members = append(room.members, Member{EndpointID: endpointID, Username: username})
	return true
}

// RemoveMember drops the endpoint from the room and deletes the room once it
// is empty. It returns the remaining members and whether anything was removed.
func (r *RoomRegistry) RemoveMember(roomID, endpointID string) ([]Member, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	idx := room.indexOf(endpointID)
	if idx < 0 {
		return room.Members(), false
	}
	room.members = append(room.members[:idx], room.members[idx+1:]...)
	if room.Empty() {
		delete(r.rooms, roomID)
		return nil, true
	}
	return room.Members(), true
}

// Members returns a snapshot of the room members, empty if the room is absent.
func (r *RoomRegistry) Members(roomID string) []Member {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return room.Members()
}

// Len reports how many rooms currently exist.
func (r *RoomRegistry) Len() int {
	return len(r.rooms)
}
