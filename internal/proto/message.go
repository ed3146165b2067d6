package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Event names, shared by inbound types and outbound events.
const (
	TypeJoinRoom            = "join-room"
	TypeLeaveRoom           = "leave-room"
	TypeOffer               = "offer"
	TypeAnswer              = "answer"
	TypeIceCandidate        = "ice-candidate"
	TypeChatMessage         = "chat-message"
	TypeFileMetadata        = "file-metadata"
	TypeFileProgress        = "file-progress"
	TypeFileComplete        = "file-complete"
	TypeFileShareAnnounce   = "file-share-announce"
	TypeFileShareStop       = "file-share-stop"
	TypeFileDownloadRequest = "file-download-request"
	TypeFileDownloadAnswer  = "file-download-answer"
	TypeFileDownloadConnect = "file-download-connect"

	// Outbound only.
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventRoomUsers  = "room-users"
)

// Field names used for addressing and server stamps.
const (
	FieldRoomID       = "roomId"
	FieldUsername     = "username"
	FieldTarget       = "targetEndpointId"
	FieldEndpointID   = "endpointId"
	FieldFrom         = "fromEndpointId"
	FieldFromUsername = "fromUsername"
	FieldSeeder       = "seederEndpointId"
	FieldDownloader   = "downloaderEndpointId"
	FieldMembers      = "members"
	FieldTimestamp    = "timestamp"
	FieldMessage      = "message"
	FieldOffer        = "offer"
	FieldAnswer       = "answer"
	FieldCandidate    = "candidate"
	FieldFileID       = "fileId"
	FieldFileName     = "fileName"
	FieldFileSize     = "fileSize"
	FieldFileType     = "fileType"
	FieldProgress     = "progress"
	FieldMetadata     = "metadata"
)

// Passthrough lists, per inbound type, the opaque fields relayed to
// recipients unchanged. Anything else in the inbound object is discarded.
var Passthrough = map[string][]string{
	TypeJoinRoom:            nil,
	TypeLeaveRoom:           nil,
	TypeOffer:               {FieldOffer},
	TypeAnswer:              {FieldAnswer},
	TypeIceCandidate:        {FieldCandidate},
	TypeChatMessage:         {FieldMessage, FieldUsername},
	TypeFileMetadata:        {FieldFileName, FieldFileSize, FieldFileType},
	TypeFileProgress:        {FieldProgress, FieldFileName},
	TypeFileComplete:        {FieldFileName},
	TypeFileShareAnnounce:   {FieldFileID, FieldMetadata},
	TypeFileShareStop:       {FieldFileID},
	TypeFileDownloadRequest: {FieldOffer, FieldFileID},
	TypeFileDownloadAnswer:  {FieldAnswer, FieldFileID},
	TypeFileDownloadConnect: {FieldFileID},
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Member is one entry of a room-users list.
type Member struct {
	EndpointID string `json:"endpointId"`
	Username   string `json:"username"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
