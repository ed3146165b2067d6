package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wirerelay-server/internal/proto"
)

type outbound struct {
	Type  string                     `json:"type"`
	Event string                     `json:"event"`
	Data  map[string]json.RawMessage `json:"data"`
	Error *proto.Error               `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3001/ws", "WebSocket address")
	user := flag.String("user", "tester", "username to join with")
	room := flag.String("room", "smoke", "room id")
	text := flag.String("text", "hello from smoke test", "chat message to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data map[string]string) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", typ, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if err := send(proto.TypeJoinRoom, map[string]string{
		proto.FieldRoomID:   *room,
		proto.FieldUsername: *user,
	}); err != nil {
		return err
	}
	if err := send(proto.TypeChatMessage, map[string]string{
		proto.FieldRoomID:   *room,
		proto.FieldUsername: *user,
		proto.FieldMessage:  *text,
	}); err != nil {
		return err
	}

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if out.Error != nil {
			return fmt.Errorf("server error %s: %s", out.Error.Code, out.Error.Msg)
		}

		raw, _ := json.Marshal(out.Data)
		fmt.Printf("event=%s data=%s\n", out.Event, raw)

		// The server echoes chat to the sender, which ends the run.
		if out.Event == proto.TypeChatMessage {
			return nil
		}
	}
}
