// Package wiresock owns the TCP socket and the sender/receiver
// goroutines that frame, encrypt, and move WorldPackets across it
// (spec.md §4.5/§4.6, "Session I/O"). Grounded on
// original_source/src/World/WorldSocket.cpp.
package wiresock

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"worldclient/internal/codec"
	"worldclient/internal/crypt"
	"worldclient/internal/opcodes"
)

// idleSleep is how long the sender goroutine rests between polls of an
// empty outbound queue, matching RunSenderThread's 1ms idle sleep.
const idleSleep = time.Millisecond

// Socket owns one TCP connection and the two goroutines that drive it.
// EnqueuePacket and GetNextPacket are the only methods safe to call
// from outside the sender/receiver goroutines themselves.
type Socket struct {
	conn   net.Conn
	reader *bufio.Reader

	send    *crypt.SendHalf
	receive *crypt.ReceiveHalf

	sendMu    sync.Mutex
	sendQueue []*codec.WorldPacket

	receiveMu    sync.Mutex
	receiveQueue []*codec.WorldPacket

	connected  bool
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	armReceive chan struct{}

	logger *log.Logger
}

// NewSocket returns a disconnected Socket. Call Connect to dial out and
// start the sender/receiver goroutines.
func NewSocket(logger *log.Logger) *Socket {
	if logger == nil {
		logger = log.Default()
	}
	return &Socket{logger: logger}
}

// Connect dials address, resets the packet cipher for a fresh
// connection, and spawns the sender and receiver goroutines. Matches
// WorldSocket::Connect: join any stale goroutines from a prior
// connection first, then start clean.
func (s *Socket) Connect(ctx context.Context, address string, sessionKey []byte) error {
	s.Disconnect()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("wiresock: dial %s: %w", address, err)
	}

	send, receive, err := crypt.NewHalves(sessionKey)
	if err != nil {
		conn.Close()
		return fmt.Errorf("wiresock: derive packet cipher: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.send = send
	s.receive = receive
	s.connected = true
	s.cancel = cancel
	s.armReceive = make(chan struct{}, 1)

	s.wg.Add(2)
	go s.runSender(runCtx)
	go s.runReceiver(runCtx)
	return nil
}

// IsConnected reports whether the socket believes it still has a live
// connection. It does not perform I/O to verify this.
func (s *Socket) IsConnected() bool { return s.connected }

// Disconnect tears down the connection, signals both goroutines to
// exit, waits for them to finish, and drains both queues. Safe to call
// on an already-disconnected Socket.
func (s *Socket) Disconnect() {
	if !s.connected {
		return
	}
	s.connected = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.wg.Wait()

	s.sendMu.Lock()
	s.sendQueue = nil
	s.sendMu.Unlock()

	s.receiveMu.Lock()
	s.receiveQueue = nil
	s.receiveMu.Unlock()
}

// EnqueuePacket appends pkt (the pointer, not a copy) to the outbound
// FIFO queue for the sender goroutine to pick up.
func (s *Socket) EnqueuePacket(pkt *codec.WorldPacket) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.sendQueue = append(s.sendQueue, pkt)
}

// GetNextPacket pops the oldest packet off the inbound FIFO queue. The
// second return value is false if the queue was empty.
func (s *Socket) GetNextPacket() (*codec.WorldPacket, bool) {
	s.receiveMu.Lock()
	defer s.receiveMu.Unlock()
	if len(s.receiveQueue) == 0 {
		return nil, false
	}
	pkt := s.receiveQueue[0]
	s.receiveQueue = s.receiveQueue[1:]
	return pkt, true
}

func (s *Socket) popSendQueue() (*codec.WorldPacket, bool) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if len(s.sendQueue) == 0 {
		return nil, false
	}
	pkt := s.sendQueue[0]
	s.sendQueue = s.sendQueue[1:]
	return pkt, true
}

func (s *Socket) pushReceiveQueue(pkt *codec.WorldPacket) {
	s.receiveMu.Lock()
	defer s.receiveMu.Unlock()
	s.receiveQueue = append(s.receiveQueue, pkt)
}

// runSender drains the outbound queue, framing and encrypting each
// packet's header before writing it to the socket. The cipher is armed
// only after a CMSG_AUTH_SESSION packet has actually been sent, never
// before — spec.md §4.4's lazy-arming invariant, grounded on
// WorldSocket::RunSenderThread. The receiver is owned by a different
// goroutine, so arming its half happens by signaling armReceive rather
// than touching s.receive directly; WorldSocket's original arms both
// halves from one Initialize() call at this same boundary.
func (s *Socket) runSender(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pkt, ok := s.popSendQueue()
		if !ok {
			time.Sleep(idleSleep)
			continue
		}

		if err := s.sendPacket(pkt); err != nil {
			s.logger.Printf("[wiresock] send failed, disconnecting: %v", err)
			return
		}

		if opcodes.Client(pkt.Opcode()) == opcodes.CMSGAuthSession && !s.send.IsArmed() {
			s.send.Arm()
			s.logger.Printf("[wiresock] armed send cipher after %s", opcodes.CMSGAuthSession.Name())
			select {
			case s.armReceive <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Socket) sendPacket(pkt *codec.WorldPacket) error {
	body := pkt.Bytes()
	header := codec.EncodeOutboundHeader(pkt.Opcode(), len(body))
	headerBytes := header[:]
	s.send.EncryptInPlace(headerBytes)

	out := make([]byte, 0, len(headerBytes)+len(body))
	out = append(out, headerBytes...)
	out = append(out, body...)

	_, err := s.conn.Write(out)
	return err
}

// runReceiver reads one header, decrypts it, determines which of the
// two header shapes is in play, reads the body, and enqueues the
// resulting packet — grounded on WorldSocket::RunReceiverThread. It
// arms the receive half once the sender signals armReceive, the same
// boundary the sender arms its own half at: the signal is checked before
// each header read begins and again once a header's bytes have arrived,
// before they are decrypted, so a header that arrives after the signal
// is always decrypted with the armed half.
func (s *Socket) runReceiver(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.armReceive:
			s.receive.Arm()
			s.logger.Printf("[wiresock] armed receive cipher after %s", opcodes.CMSGAuthSession.Name())
		default:
		}

		pkt, err := s.readPacket()
		if err != nil {
			if err != io.EOF {
				s.logger.Printf("[wiresock] receive failed, disconnecting: %v", err)
			}
			return
		}
		s.pushReceiveQueue(pkt)
	}
}

func (s *Socket) readPacket() (*codec.WorldPacket, error) {
	var h4 [codec.InboundHeaderSizeSmall]byte
	if _, err := io.ReadFull(s.reader, h4[:]); err != nil {
		return nil, err
	}
	select {
	case <-s.armReceive:
		s.receive.Arm()
		s.logger.Printf("[wiresock] armed receive cipher after %s", opcodes.CMSGAuthSession.Name())
	default:
	}
	s.receive.DecryptInPlace(h4[:])

	var opcode uint16
	var bodyLen int
	if codec.InboundHeaderHasExtraByte(h4) {
		var extra [1]byte
		if _, err := io.ReadFull(s.reader, extra[:]); err != nil {
			return nil, err
		}
		s.receive.DecryptInPlace(extra[:])
		var h5 [codec.InboundHeaderSizeLarge]byte
		copy(h5[:4], h4[:])
		h5[4] = extra[0]
		opcode, bodyLen = codec.DecodeInboundHeaderLarge(h5)
	} else {
		opcode, bodyLen = codec.DecodeInboundHeaderSmall(h4)
	}

	if bodyLen < 0 {
		return nil, fmt.Errorf("wiresock: negative body length %d decoded from header", bodyLen)
	}

	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := io.ReadFull(s.reader, body); err != nil {
			return nil, err
		}
	}

	return codec.NewWorldPacketFromBody(uint32(opcode), body), nil
}
