package ipc

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"
)

func TestConnectionReadLoop(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConnection(server, nil)
	c.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		reply, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
		return &reply, err
	})
	c.RegisterHandler(TypeLevelData, func(env Envelope) (*Envelope, error) {
		return nil, errors.New("bad snapshot")
	})

	done := make(chan struct{})
	go func() {
		c.ReadLoop()
		close(done)
	}()

	client.SetDeadline(time.Now().Add(2 * time.Second))

	send := func(msgType string, data any) {
		t.Helper()
		env, err := NewEnvelope(msgType, data)
		if err != nil {
			t.Fatalf("NewEnvelope: %v", err)
		}
		if err := WriteEnvelope(client, env); err != nil {
			t.Fatalf("WriteEnvelope: %v", err)
		}
	}

	send(TypeHello, HelloMessage{Player: "me"})
	ack, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read ack: %v", err)
	}
	if ack.Type != TypeAck {
		t.Errorf("reply type = %q, want ack", ack.Type)
	}

	// Unknown types are skipped without a reply; the next message still works.
	send("mystery", struct{}{})
	send(TypeLevelData, struct{}{})
	reply, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read error reply: %v", err)
	}
	if reply.Type != TypeError {
		t.Fatalf("reply type = %q, want error", reply.Type)
	}
	var msg ErrorMessage
	if err := json.Unmarshal(reply.Data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != TypeLevelData || msg.Error != "bad snapshot" {
		t.Errorf("error reply = %+v", msg)
	}

	client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLoop did not return after close")
	}
	if c.Player != "me" {
		t.Errorf("Player = %q, want me", c.Player)
	}
}
