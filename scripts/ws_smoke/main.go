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

	"github.com/vovakirdan/tutorcall-signal/internal/proto"
)

// outbound mirrors proto.Outbound with raw data so the smoke client can print it.
type outbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *proto.Error    `json:"error,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "smoke-room", "room id both peers join")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tutor, err := dial(ctx, *addr+"?name=tutor")
	if err != nil {
		return err
	}
	defer tutor.Close(websocket.StatusNormalClosure, "bye")

	student, err := dial(ctx, *addr+"?name=student")
	if err != nil {
		return err
	}
	defer student.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, tutor, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room}); err != nil {
		return err
	}
	if err := expect(ctx, tutor, proto.OutboundTypeCreatedRoom); err != nil {
		return err
	}

	if err := send(ctx, student, proto.InboundTypeJoinRoom, proto.JoinRoomData{RoomID: *room}); err != nil {
		return err
	}
	if err := expect(ctx, student, proto.OutboundTypeJoinedRoom); err != nil {
		return err
	}
	if err := expect(ctx, tutor, proto.OutboundTypeUserJoined); err != nil {
		return err
	}

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0 smoke"}`)
	if err := send(ctx, student, proto.InboundTypeOffer, proto.SignalData{RoomID: *room, Offer: offer}); err != nil {
		return err
	}
	if err := expect(ctx, tutor, proto.OutboundTypeOffer); err != nil {
		return err
	}

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0 smoke"}`)
	if err := send(ctx, tutor, proto.InboundTypeAnswer, proto.SignalData{RoomID: *room, Answer: answer}); err != nil {
		return err
	}
	if err := expect(ctx, student, proto.OutboundTypeAnswer); err != nil {
		return err
	}

	fmt.Println("smoke test passed")
	return nil
}

func dial(ctx context.Context, url string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return conn, nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func expect(ctx context.Context, conn *websocket.Conn, typ string) error {
	var msg outbound
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	fmt.Printf("Received outbound: type=%s data=%s\n", msg.Type, msg.Data)
	if msg.Error != nil {
		return fmt.Errorf("server error %s: %s", msg.Error.Code, msg.Error.Msg)
	}
	if msg.Type != typ {
		return fmt.Errorf("expected %s, got %s", typ, msg.Type)
	}
	return nil
}
