package core

import "time"

// EventKind is a notification the core emits to endpoints.
type EventKind int

const (
	// EventUserJoined tells room members that someone joined.
	EventUserJoined EventKind = iota
	// EventUserLeft tells room members that someone left.
	EventUserLeft
	// EventRoomUsers carries the full member list of a room.
	EventRoomUsers
	EventOffer
	EventAnswer
	EventIceCandidate
	// EventChatMessage delivers chat text with a server timestamp.
	EventChatMessage
	EventFileMetadata
	EventFileProgress
	EventFileComplete
	EventFileShareAnnounce
	EventFileShareStop
	EventFileDownloadRequest
	EventFileDownloadAnswer
	EventFileDownloadConnect
)

// Event is sent to endpoints to describe what happened. Events are shared
// between recipients and must not be mutated after they are published.
type Event struct {
	Kind EventKind
	Room string
	// From is the endpoint that triggered the event, if it is part of the payload.
	From         string
	FromUsername string
	// Username and EndpointID describe the subject of presence events.
	Username   string
	EndpointID string
	Members    []Member
	Fields     Fields
	Timestamp  time.Time
}
