package core

import "time"

// Publisher is the transport primitive the router sends through.
type Publisher interface {
	// Send queues an event for one endpoint.
	Send(to string, event *Event) Outcome
	// Broadcast queues an event for every connected endpoint except one.
	Broadcast(except string, event *Event) Delivery
}

type relayRoute struct {
	event        EventKind
	withUsername bool
}

// Point-to-point relays. withUsername stamps the sender's directory name.
var relayRoutes = map[CommandKind]relayRoute{
	CommandOffer:               {event: EventOffer, withUsername: true},
	CommandAnswer:              {event: EventAnswer, withUsername: true},
	CommandIceCandidate:        {event: EventIceCandidate},
	CommandFileMetadata:        {event: EventFileMetadata, withUsername: true},
	CommandFileProgress:        {event: EventFileProgress},
	CommandFileComplete:        {event: EventFileComplete},
	CommandFileDownloadRequest: {event: EventFileDownloadRequest},
	CommandFileDownloadAnswer:  {event: EventFileDownloadAnswer},
}

var broadcastRoutes = map[CommandKind]EventKind{
	CommandFileShareAnnounce:   EventFileShareAnnounce,
	CommandFileShareStop:       EventFileShareStop,
	CommandFileDownloadConnect: EventFileDownloadConnect,
}

// Router applies one inbound command at a time to the room registry and
// the endpoint directory, and addresses the resulting events. It is not
// safe for concurrent use; the hub serializes calls to Handle.
type Router struct {
	rooms    *RoomRegistry
	dir      *Directory
	pub      Publisher
	now      func() time.Time
	lastChat map[string]time.Time
}

// NewRouter builds a router over the given registries. now defaults to time.Now.
func NewRouter(rooms *RoomRegistry, dir *Directory, pub Publisher, now func() time.Time) *Router {
	if now == nil {
		now = time.Now
	}
	return &Router{
		rooms:    rooms,
		dir:      dir,
		pub:      pub,
		now:      now,
		lastChat: make(map[string]time.Time),
	}
}

// Rooms exposes the room registry for read-only inspection.
func (r *Router) Rooms() *RoomRegistry { return r.rooms }

// Directory exposes the endpoint directory for read-only inspection.
func (r *Router) Directory() *Directory { return r.dir }

// Handle processes one command to completion.
func (r *Router) Handle(cmd Command) Delivery {
	switch cmd.Kind {
	case CommandConnect:
		r.dir.Register(cmd.From)
		return Delivery{}
	case CommandDisconnect:
		return r.disconnect(cmd.From)
	case CommandJoinRoom:
		return r.join(cmd)
	case CommandLeaveRoom:
		return r.leaveRoom(cmd)
	case CommandChatMessage:
		return r.chat(cmd)
	}

	if route, ok := relayRoutes[cmd.Kind]; ok {
		return r.relay(cmd, route)
	}
	if kind, ok := broadcastRoutes[cmd.Kind]; ok {
		return r.pub.Broadcast(cmd.From, &Event{Kind: kind, From: cmd.From, Fields: cmd.Fields})
	}
	return Delivery{}
}

func (r *Router) join(cmd Command) Delivery {
	var d Delivery

	if prev, ok := r.dir.Lookup(cmd.From); ok && prev.Presence == PresenceJoined && prev.RoomID != cmd.RoomID {
		d.Merge(r.leave(cmd.From, prev.RoomID, prev.Username))
	}

	r.dir.SetIdentity(cmd.From, cmd.Username, cmd.RoomID)
	r.rooms.Ensure(cmd.RoomID)
	r.rooms.AddMember(cmd.RoomID, cmd.From, cmd.Username)

	members := r.rooms.Members(cmd.RoomID)
	d.Merge(r.sendMembers(members, cmd.From, &Event{
		Kind:       EventUserJoined,
		Room:       cmd.RoomID,
		Username:   cmd.Username,
		EndpointID: cmd.From,
	}))
	d.Merge(r.sendMembers(members, "", &Event{
		Kind:    EventRoomUsers,
		Room:    cmd.RoomID,
		Members: members,
	}))
	return d
}

func (r *Router) leaveRoom(cmd Command) Delivery {
	id, ok := r.dir.Lookup(cmd.From)
	if !ok || (id.Presence != PresenceJoined && id.Username == "") {
		// Never joined: no name to announce.
		return Delivery{}
	}
	d := r.leave(cmd.From, cmd.RoomID, id.Username)
	if id.Presence == PresenceJoined && id.RoomID == cmd.RoomID {
		r.dir.ClearRoom(cmd.From)
	}
	return d
}

func (r *Router) disconnect(endpointID string) Delivery {
	delete(r.lastChat, endpointID)
	id, ok := r.dir.Unregister(endpointID)
	if !ok || id.Presence != PresenceJoined {
		return Delivery{}
	}
	return r.leave(endpointID, id.RoomID, id.Username)
}

// leave removes the endpoint from roomID and notifies whoever is left.
// Members hear user-left even when the endpoint was not one of them.
func (r *Router) leave(endpointID, roomID, username string) Delivery {
	remaining, _ := r.rooms.RemoveMember(roomID, endpointID)
	if len(remaining) == 0 {
		return Delivery{}
	}

	var d Delivery
	d.Merge(r.sendMembers(remaining, "", &Event{
		Kind:    EventRoomUsers,
		Room:    roomID,
		Members: remaining,
	}))
	d.Merge(r.sendMembers(remaining, endpointID, &Event{
		Kind:     EventUserLeft,
		Room:     roomID,
		Username: username,
	}))
	return d
}

func (r *Router) chat(cmd Command) Delivery {
	ts := r.now()
	if last, ok := r.lastChat[cmd.From]; ok && ts.Before(last) {
		ts = last
	}
	r.lastChat[cmd.From] = ts

	members := r.rooms.Members(cmd.RoomID)
	if len(members) == 0 {
		return Delivery{}
	}
	return r.sendMembers(members, "", &Event{
		Kind:      EventChatMessage,
		Room:      cmd.RoomID,
		Fields:    cmd.Fields,
		Timestamp: ts,
	})
}

func (r *Router) relay(cmd Command, route relayRoute) Delivery {
	var d Delivery
	if cmd.Target == "" || cmd.Target == cmd.From {
		d.Add(DroppedNoRecipient)
		return d
	}

	event := &Event{Kind: route.event, From: cmd.From, Fields: cmd.Fields}
	if route.withUsername {
		if id, ok := r.dir.Lookup(cmd.From); ok {
			event.FromUsername = id.Username
		}
	}
	d.Add(r.pub.Send(cmd.Target, event))
	return d
}

// sendMembers delivers to each member except the one with id except.
func (r *Router) sendMembers(members []Member, except string, event *Event) Delivery {
	var d Delivery
	for _, m := range members {
		if m.EndpointID == except {
			continue
		}
		d.Add(r.pub.Send(m.EndpointID, event))
	}
	return d
}
