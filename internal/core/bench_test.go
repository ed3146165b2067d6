package core

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
)

func benchmarkRoomChat(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	sender := NewEndpoint("sender", 0)
	_ = hub.Connect(sender)
	_ = hub.Dispatch(Command{Kind: CommandJoinRoom, From: sender.ID, RoomID: "bench", Username: "sender"})

	endpoints := make([]*Endpoint, 0, recipients)
	for i := range recipients {
		ep := NewEndpoint("c"+strconv.Itoa(i), 0)
		_ = hub.Connect(ep)
		_ = hub.Dispatch(Command{Kind: CommandJoinRoom, From: ep.ID, RoomID: "bench", Username: ep.ID})
		endpoints = append(endpoints, ep)
	}

	// Drain events for everyone but the sender to avoid channel backpressure.
	for _, ep := range endpoints {
		go func(e *Endpoint) {
			for range e.Events {
			}
		}(ep)
	}

	fields := Fields{"message": json.RawMessage(`"payload"`)}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = hub.Dispatch(Command{Kind: CommandChatMessage, From: sender.ID, RoomID: "bench", Fields: fields})
		for ev := range sender.Events {
			if ev.Kind == EventChatMessage {
				break
			}
		}
	}
}

func BenchmarkRoomChat_10(b *testing.B)  { benchmarkRoomChat(b, 10) }
func BenchmarkRoomChat_100(b *testing.B) { benchmarkRoomChat(b, 100) }
func BenchmarkRoomChat_500(b *testing.B) { benchmarkRoomChat(b, 500) }
