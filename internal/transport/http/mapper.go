package http

import (
	"bytes"
	"encoding/json"

	"github.com/vovakirdan/wirerelay-server/internal/core"
	"github.com/vovakirdan/wirerelay-server/internal/proto"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var commandKinds = map[string]core.CommandKind{
	proto.TypeJoinRoom:            core.CommandJoinRoom,
	proto.TypeLeaveRoom:           core.CommandLeaveRoom,
	proto.TypeOffer:               core.CommandOffer,
	proto.TypeAnswer:              core.CommandAnswer,
	proto.TypeIceCandidate:        core.CommandIceCandidate,
	proto.TypeChatMessage:         core.CommandChatMessage,
	proto.TypeFileMetadata:        core.CommandFileMetadata,
	proto.TypeFileProgress:        core.CommandFileProgress,
	proto.TypeFileComplete:        core.CommandFileComplete,
	proto.TypeFileShareAnnounce:   core.CommandFileShareAnnounce,
	proto.TypeFileShareStop:       core.CommandFileShareStop,
	proto.TypeFileDownloadRequest: core.CommandFileDownloadRequest,
	proto.TypeFileDownloadAnswer:  core.CommandFileDownloadAnswer,
	proto.TypeFileDownloadConnect: core.CommandFileDownloadConnect,
}

var eventNames = map[core.EventKind]string{
	core.EventUserJoined:          proto.EventUserJoined,
	core.EventUserLeft:            proto.EventUserLeft,
	core.EventRoomUsers:           proto.EventRoomUsers,
	core.EventOffer:               proto.TypeOffer,
	core.EventAnswer:              proto.TypeAnswer,
	core.EventIceCandidate:        proto.TypeIceCandidate,
	core.EventChatMessage:         proto.TypeChatMessage,
	core.EventFileMetadata:        proto.TypeFileMetadata,
	core.EventFileProgress:        proto.TypeFileProgress,
	core.EventFileComplete:        proto.TypeFileComplete,
	core.EventFileShareAnnounce:   proto.TypeFileShareAnnounce,
	core.EventFileShareStop:       proto.TypeFileShareStop,
	core.EventFileDownloadRequest: proto.TypeFileDownloadRequest,
	core.EventFileDownloadAnswer:  proto.TypeFileDownloadAnswer,
	core.EventFileDownloadConnect: proto.TypeFileDownloadConnect,
}

// Wire name of the sender stamp for each relayed event, if any.
var senderFields = map[core.EventKind]string{
	core.EventOffer:               proto.FieldFrom,
	core.EventAnswer:              proto.FieldFrom,
	core.EventIceCandidate:        proto.FieldFrom,
	core.EventFileMetadata:        proto.FieldFrom,
	core.EventFileProgress:        proto.FieldFrom,
	core.EventFileComplete:        proto.FieldFrom,
	core.EventFileDownloadRequest: proto.FieldFrom,
	core.EventFileDownloadAnswer:  proto.FieldFrom,
	core.EventFileShareAnnounce:   proto.FieldSeeder,
	core.EventFileDownloadConnect: proto.FieldDownloader,
}

func needsRoom(kind core.CommandKind) bool {
	switch kind {
	case core.CommandJoinRoom, core.CommandLeaveRoom, core.CommandChatMessage:
		return true
	default:
		return false
	}
}

func inboundToCommand(endpointID string, inbound proto.Inbound) (*core.Command, *proto.Error) {
	kind, ok := commandKinds[inbound.Type]
	if !ok {
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}

	fields := make(map[string]json.RawMessage)
	if data := bytes.TrimSpace(inbound.Data); len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "data must be an object"}
		}
	}

	cmd := &core.Command{
		Kind:     kind,
		From:     endpointID,
		RoomID:   stringField(fields, proto.FieldRoomID),
		Username: stringField(fields, proto.FieldUsername),
		Target:   stringField(fields, proto.FieldTarget),
	}
	if needsRoom(kind) && cmd.RoomID == "" {
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
	}

	if keys := proto.Passthrough[inbound.Type]; len(keys) > 0 {
		cmd.Fields = make(core.Fields, len(keys))
		for _, key := range keys {
			if raw, ok := fields[key]; ok {
				cmd.Fields[key] = raw
			}
		}
	}
	return cmd, nil
}

// stringField decodes a JSON string value; anything else reads as empty.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	data := make(map[string]any, len(event.Fields)+2)
	for key, raw := range event.Fields {
		data[key] = raw
	}

	switch event.Kind {
	case core.EventUserJoined:
		data[proto.FieldUsername] = event.Username
		data[proto.FieldEndpointID] = event.EndpointID
	case core.EventUserLeft:
		data[proto.FieldUsername] = event.Username
	case core.EventRoomUsers:
		members := make([]proto.Member, 0, len(event.Members))
		for _, m := range event.Members {
			members = append(members, proto.Member{EndpointID: m.EndpointID, Username: m.Username})
		}
		data[proto.FieldMembers] = members
	case core.EventChatMessage:
		data[proto.FieldTimestamp] = event.Timestamp.UTC().Format(timestampLayout)
	}

	if key, ok := senderFields[event.Kind]; ok {
		data[key] = event.From
	}
	if event.FromUsername != "" {
		data[proto.FieldFromUsername] = event.FromUsername
	}

	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: eventNames[event.Kind],
		Data:  data,
	}
}

func errorOutbound(protoErr *proto.Error) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr}
}
