package session

import (
	"testing"
	"time"

	"worldclient/internal/cache"
	"worldclient/internal/codec"
	"worldclient/internal/opcodes"
)

func newTestSession() *Session {
	return New(cache.NewInMemory(), Periods{
		KeepAlive: time.Minute,
		Ping:      time.Minute,
		Save:      time.Minute,
	}, nil)
}

func TestDispatchKnownOpcodeInvokesHandler(t *testing.T) {
	s := newTestSession()
	called := false
	s.SetHandler(opcodes.SMSGMotd, func(pkt *codec.WorldPacket) {
		called = true
	})

	s.handlePacket(codec.NewWorldPacket(uint32(opcodes.SMSGMotd), 0))
	if !called {
		t.Fatal("handler for SMSG_MOTD was not invoked")
	}
}

func TestDispatchUnknownOpcodeIsDropped(t *testing.T) {
	s := newTestSession()
	// No handler registered for this opcode; handlePacket must not panic.
	s.handlePacket(codec.NewWorldPacket(0xFFFF, 0))
}

func TestNameQueryResponseUpdatesCache(t *testing.T) {
	names := cache.NewInMemory()
	s := New(names, Periods{}, nil)

	pkt := codec.NewWorldPacket(uint32(opcodes.SMSGNameQueryResponse), 16)
	if err := pkt.WritePackedGUID(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := pkt.WriteString("Illidan"); err != nil {
		t.Fatal(err)
	}

	s.handlePacket(pkt)

	got, ok := names.Lookup(0x1234)
	if !ok || got != "Illidan" {
		t.Fatalf("cache lookup = %q, %v, want Illidan, true", got, ok)
	}
}

func TestHandleConsoleCommandDisconnects(t *testing.T) {
	s := newTestSession()
	// Enter was never called, so there is no live socket/scheduler; this
	// only exercises that the matched commands route to Disconnect
	// without panicking on an already-torn-down session.
	for _, cmd := range []string{"quit", "disconnect now", "LOGOUT"} {
		s.HandleConsoleCommand(cmd)
	}
	s.HandleConsoleCommand("say hello") // must be ignored, not panic
}
