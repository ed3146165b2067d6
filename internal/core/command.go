package core

import "encoding/json"

// CommandKind describes what an endpoint asks the hub to do.
type CommandKind int

const (
	// CommandConnect registers a new live connection.
	CommandConnect CommandKind = iota
	// CommandDisconnect tears down a connection and its room membership.
	CommandDisconnect
	// CommandJoinRoom puts the endpoint into a room under a username.
	CommandJoinRoom
	// CommandLeaveRoom removes the endpoint from a room.
	CommandLeaveRoom
	// CommandOffer relays a session offer to one endpoint.
	CommandOffer
	// CommandAnswer relays a session answer to one endpoint.
	CommandAnswer
	// CommandIceCandidate relays a network candidate to one endpoint.
	CommandIceCandidate
	// CommandChatMessage sends chat text to every member of a room.
	CommandChatMessage
	// CommandFileMetadata announces an incoming transfer to one endpoint.
	CommandFileMetadata
	// CommandFileProgress reports transfer progress to one endpoint.
	CommandFileProgress
	// CommandFileComplete reports a finished transfer to one endpoint.
	CommandFileComplete
	// CommandFileShareAnnounce advertises a shared file to everyone.
	CommandFileShareAnnounce
	// CommandFileShareStop withdraws a shared file from everyone.
	CommandFileShareStop
	// CommandFileDownloadRequest relays a download offer to the seeder.
	CommandFileDownloadRequest
	// CommandFileDownloadAnswer relays the seeder's answer to the downloader.
	CommandFileDownloadAnswer
	// CommandFileDownloadConnect asks every endpoint who seeds a file.
	CommandFileDownloadConnect
)

var commandKindNames = map[CommandKind]string{
	CommandConnect:             "connect",
	CommandDisconnect:          "disconnect",
	CommandJoinRoom:            "join-room",
	CommandLeaveRoom:           "leave-room",
	CommandOffer:               "offer",
	CommandAnswer:              "answer",
	CommandIceCandidate:        "ice-candidate",
	CommandChatMessage:         "chat-message",
	CommandFileMetadata:        "file-metadata",
	CommandFileProgress:        "file-progress",
	CommandFileComplete:        "file-complete",
	CommandFileShareAnnounce:   "file-share-announce",
	CommandFileShareStop:       "file-share-stop",
	CommandFileDownloadRequest: "file-download-request",
	CommandFileDownloadAnswer:  "file-download-answer",
	CommandFileDownloadConnect: "file-download-connect",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Fields carries opaque payload values keyed by their wire name. The core
// never decodes them.
type Fields map[string]json.RawMessage

// Command represents an inbound event from one endpoint.
type Command struct {
	Kind CommandKind
	// From is the sender endpoint id, stamped by the transport.
	From string
	// Endpoint is set only for CommandConnect.
	Endpoint *Endpoint
	RoomID   string
	Username string
	Target   string
	Fields   Fields
}
