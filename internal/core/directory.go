package core

// Presence tells whether a connected endpoint has joined a room.
type Presence int

const (
	// PresenceConnected is a live connection that has not joined a room.
	PresenceConnected Presence = iota
	// PresenceJoined is a connection that currently belongs to RoomID.
	PresenceJoined
)

func (p Presence) String() string {
	switch p {
	case PresenceConnected:
		return "connected"
	case PresenceJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Identity is what the directory knows about one endpoint.
type Identity struct {
	EndpointID string
	Username   string
	RoomID     string
	Presence   Presence
}

// Directory maps endpoint ids to their identity. It is the reverse index
// used to clean up room membership when a connection goes away.
type Directory struct {
	entries map[string]*Identity
}

// NewDirectory builds an empty directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]*Identity)}
}

// Register records a freshly connected endpoint. Returns false if it was
// already known.
func (d *Directory) Register(endpointID string) bool {
	if _, ok := d.entries[endpointID]; ok {
		return false
	}
	d.entries[endpointID] = &Identity{EndpointID: endpointID, Presence: PresenceConnected}
	return true
}

// SetIdentity marks the endpoint as joined to roomID under username,
// registering it first if needed.
func (d *Directory) SetIdentity(endpointID, username, roomID string) {
	entry, ok := d.entries[endpointID]
	if !ok {
		entry = &Identity{EndpointID: endpointID}
		d.entries[endpointID] = entry
	}
	entry.Username = username
	entry.RoomID = roomID
	entry.Presence = PresenceJoined
}

// ClearRoom moves a joined endpoint back to the connected state. The
// username is kept so later relays can still be stamped with it.
func (d *Directory) ClearRoom(endpointID string) {
	entry, ok := d.entries[endpointID]
	if !ok {
		return
	}
	entry.RoomID = ""
	entry.Presence = PresenceConnected
}

// Lookup returns a copy of the endpoint identity.
func (d *Directory) Lookup(endpointID string) (Identity, bool) {
	entry, ok := d.entries[endpointID]
	if !ok {
		return Identity{}, false
	}
	return *entry, true
}

// Unregister removes the endpoint and returns its last known identity.
func (d *Directory) Unregister(endpointID string) (Identity, bool) {
	entry, ok := d.entries[endpointID]
	if !ok {
		return Identity{}, false
	}
	delete(d.entries, endpointID)
	return *entry, true
}

// Len reports how many endpoints are known.
func (d *Directory) Len() int {
	return len(d.entries)
}
