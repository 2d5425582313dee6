package codec

// WorldPacket pairs a Codec buffer with the immutable opcode it is tagged
// with, the unit of data the session layer moves between the dispatch
// table and the wire (spec.md §3, "WorldPacket").
type WorldPacket struct {
	*Buffer
	opcode uint32
}

// NewWorldPacket creates an empty outbound packet for opcode, reserving
// reserveHint bytes of body capacity up front.
func NewWorldPacket(opcode uint32, reserveHint int) *WorldPacket {
	return &WorldPacket{
		Buffer: NewBuffer(reserveHint),
		opcode: opcode,
	}
}

// NewWorldPacketFromBody wraps an already-read body under the given
// opcode, as the receiver does once it has parsed a wire header.
func NewWorldPacketFromBody(opcode uint32, body []byte) *WorldPacket {
	return &WorldPacket{
		Buffer: NewBufferFromBytes(body),
		opcode: opcode,
	}
}

// Opcode returns the packet's opcode. It cannot be changed after
// construction: a packet's identity is fixed at creation, matching
// WorldPacket's single-opcode-constructor design in the source protocol.
func (p *WorldPacket) Opcode() uint32 { return p.opcode }
