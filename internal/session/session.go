// Package session implements the Session Orchestrator (spec.md §4.8):
// it wires the TCP socket, the periodic scheduler, and the opcode
// dispatch table together, and owns the connection's lifecycle from
// Enter through Disconnect. Grounded on
// original_source/src/World/WorldSession.cpp.
package session

import (
	"context"
	"log"
	"strings"
	"time"

	"worldclient/internal/cache"
	"worldclient/internal/codec"
	"worldclient/internal/event"
	"worldclient/internal/opcodes"
	"worldclient/internal/wiresock"
)

// Handler processes the body of one inbound packet. Handlers in this
// module are logging-only stubs, except handleNameQueryResponse, which
// feeds the name cache: opcode body semantics are out of scope
// per spec.md §1, but the dispatch table itself — which opcodes exist
// and route somewhere — is supplemented from
// WorldSession::GetOpcodeHandlers.
type Handler func(pkt *codec.WorldPacket)

// Periods configures three of the scheduler's four built-in events; the
// packet-drain event always runs every 10ms.
type Periods struct {
	KeepAlive time.Duration
	Ping      time.Duration
	Save      time.Duration
}

// Session is the orchestrator: one TCP socket, one event scheduler, one
// opcode dispatch table, and the name cache the PERIODIC_SAVE event
// flushes.
type Session struct {
	socket  *wiresock.Socket
	events  *event.Mgr
	names   *cache.NameCache
	logger  *log.Logger
	periods Periods

	handlers map[opcodes.Server]Handler
}

// New constructs a Session with the default opcode handler table
// installed (§ SUPPLEMENTED FEATURES).
func New(names *cache.NameCache, periods Periods, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		socket:   wiresock.NewSocket(logger),
		events:   event.NewMgr(),
		names:    names,
		logger:   logger,
		periods:  periods,
		handlers: make(map[opcodes.Server]Handler),
	}
	s.installDefaultHandlers()
	return s
}

func (s *Session) installDefaultHandlers() {
	logOnly := func(opcode opcodes.Server) Handler {
		return func(pkt *codec.WorldPacket) {
			s.logger.Printf("[Session] %s: %d body bytes", opcode.Name(), pkt.Size())
		}
	}
	s.handlers[opcodes.SMSGAuthChallenge] = logOnly(opcodes.SMSGAuthChallenge)
	s.handlers[opcodes.SMSGAuthResponse] = logOnly(opcodes.SMSGAuthResponse)
	s.handlers[opcodes.SMSGChannelNotify] = logOnly(opcodes.SMSGChannelNotify)
	s.handlers[opcodes.SMSGCharEnum] = logOnly(opcodes.SMSGCharEnum)
	s.handlers[opcodes.SMSGMessageChat] = logOnly(opcodes.SMSGMessageChat)
	s.handlers[opcodes.SMSGGMMessageChat] = logOnly(opcodes.SMSGGMMessageChat)
	s.handlers[opcodes.SMSGMotd] = logOnly(opcodes.SMSGMotd)
	s.handlers[opcodes.SMSGPong] = logOnly(opcodes.SMSGPong)
	s.handlers[opcodes.SMSGTimeSyncReq] = logOnly(opcodes.SMSGTimeSyncReq)
	s.handlers[opcodes.SMSGNameQueryResponse] = s.handleNameQueryResponse
}

// handleNameQueryResponse is the one handler with a real body, since it
// feeds the name cache this module already implements: it reads a
// packed GUID followed by a NUL-terminated name, matching the wire shape
// every other SMSG_* handler in this table would use if its body were in
// scope.
func (s *Session) handleNameQueryResponse(pkt *codec.WorldPacket) {
	guid, err := pkt.ReadPackedGUID()
	if err != nil {
		s.logger.Printf("[Session] %s: bad guid: %v", opcodes.SMSGNameQueryResponse.Name(), err)
		return
	}
	name := pkt.ReadString()
	s.names.Put(guid, name)
	s.logger.Printf("[Session] %s: %d -> %q", opcodes.SMSGNameQueryResponse.Name(), guid, name)
}

// SetHandler overrides or adds a handler for opcode.
func (s *Session) SetHandler(opcode opcodes.Server, h Handler) {
	s.handlers[opcode] = h
}

// Enter connects to address, loads the name cache, registers the four
// built-in events, and starts the scheduler — the sequence
// WorldSession::Enter follows: connect, stop any stale scheduler, bind
// events, start.
func (s *Session) Enter(ctx context.Context, address string, sessionKey []byte) error {
	if err := s.socket.Connect(ctx, address, sessionKey); err != nil {
		return err
	}

	if s.names != nil {
		if err := s.names.Load(); err != nil {
			s.logger.Printf("[Session] name cache load failed: %v", err)
		}
	}

	s.events.Stop()
	s.events.AddEvent(event.NewEvent(event.ProcessIncoming, 10*time.Millisecond, true, s.drainIncoming))
	s.events.AddEvent(event.NewEvent(event.SendKeepAlive, s.periodOrDefault(s.periods.KeepAlive, time.Minute), false, s.sendKeepAlive))
	s.events.AddEvent(event.NewEvent(event.SendPing, s.periodOrDefault(s.periods.Ping, 30*time.Second), false, s.SendPing))
	s.events.AddEvent(event.NewEvent(event.PeriodicSave, s.periodOrDefault(s.periods.Save, time.Minute), true, s.periodicSave))
	s.events.Start()

	return nil
}

func (s *Session) periodOrDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Disconnect stops the scheduler and tears down the socket.
func (s *Session) Disconnect() {
	s.events.Stop()
	s.socket.Disconnect()
}

// SendPacket enqueues pkt for the sender goroutine, matching
// WorldSession::SendPacket's direct call to the socket's enqueue.
func (s *Session) SendPacket(pkt *codec.WorldPacket) {
	s.socket.EnqueuePacket(pkt)
}

// drainIncoming is EVENT_PROCESS_INCOMING's callback: pop every packet
// currently queued and dispatch it, matching the inline loop in
// WorldSession::Enter's PROCESS_INCOMING registration.
func (s *Session) drainIncoming() {
	for {
		pkt, ok := s.socket.GetNextPacket()
		if !ok {
			return
		}
		s.handlePacket(pkt)
	}
}

// handlePacket looks up and invokes a handler for pkt's opcode. An
// unrecognized opcode is logged and the packet is dropped. Handlers
// return nothing, so handlePacket neither sees nor logs a codec fault
// raised inside a handler; each handler logs and abandons its own
// packet on such a fault (as handleNameQueryResponse does), and the
// session carries on with the next packet.
func (s *Session) handlePacket(pkt *codec.WorldPacket) {
	opcode := opcodes.Server(pkt.Opcode())
	handler, ok := s.handlers[opcode]
	if !ok {
		s.logger.Printf("[Session] dropping packet with unhandled opcode %s (%#x)", opcode.Name(), pkt.Opcode())
		return
	}
	handler(pkt)
}

// sendKeepAlive is EVENT_SEND_KEEP_ALIVE's callback: an empty-bodied
// CMSG_KEEP_ALIVE packet.
func (s *Session) sendKeepAlive() {
	s.SendPacket(codec.NewWorldPacket(uint32(opcodes.CMSGKeepAlive), 0))
}

// SendPing is EVENT_SEND_PING's callback and is also exposed directly so
// a caller can issue an out-of-band ping.
func (s *Session) SendPing() {
	s.SendPacket(codec.NewWorldPacket(uint32(opcodes.CMSGPing), 0))
}

// periodicSave is EVENT_PERIODIC_SAVE's callback.
func (s *Session) periodicSave() {
	if s.names == nil {
		return
	}
	if err := s.names.Save(); err != nil {
		s.logger.Printf("[Session] periodic save failed: %v", err)
	}
}

// HandleConsoleCommand implements the thin console-command collaborator
// named in spec.md §4.8: "quit", "disconnect", and "logout" all
// disconnect the session; anything else is ignored. Grounded on
// WorldSession::HandleConsoleCommand.
func (s *Session) HandleConsoleCommand(cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "disconnect", "logout":
		s.Disconnect()
	}
}
