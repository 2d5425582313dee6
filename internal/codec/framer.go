package codec

// Framer functions implement the two wire header shapes used by the
// world session protocol (spec.md §4.5). Outbound (client-to-server)
// packets carry a 4-byte opcode and always use a fixed 6-byte header.
// Inbound (server-to-client) packets carry a 2-byte opcode and use a
// 4-byte header for bodies that fit a 15-bit size field, or a 5-byte
// header — flagged by the top bit of the first byte — for larger ones.
// Grounded on original_source/src/World/WorldSocket.cpp's
// RunSenderThread/RunReceiverThread framing.

const (
	// OutboundHeaderSize is the fixed size of a client-to-server header:
	// a 2-byte big-endian size field followed by a 4-byte little-endian
	// opcode.
	OutboundHeaderSize = 6

	// InboundHeaderSizeSmall is the header size used when the encoded
	// size field fits in 15 bits.
	InboundHeaderSizeSmall = 4

	// InboundHeaderSizeLarge is the header size used when the size field
	// needs the extra byte (top bit of the first byte set as a flag).
	InboundHeaderSizeLarge = 5

	// inboundLargeThreshold is the smallest value of (bodyLen+4) that no
	// longer fits in the small header's 15-bit size field.
	inboundLargeThreshold = 0x8000
)

// EncodeOutboundHeader builds the 6-byte header a client sends ahead of
// a packet body: a big-endian uint16 holding bodyLen+4 (the byte count
// following the size field: a 4-byte opcode plus the body), followed by
// the opcode as a little-endian uint32.
func EncodeOutboundHeader(opcode uint32, bodyLen int) [OutboundHeaderSize]byte {
	var h [OutboundHeaderSize]byte
	size := uint16(bodyLen + 4)
	h[0] = byte(size >> 8)
	h[1] = byte(size)
	h[2] = byte(opcode)
	h[3] = byte(opcode >> 8)
	h[4] = byte(opcode >> 16)
	h[5] = byte(opcode >> 24)
	return h
}

// InboundHeaderHasExtraByte reports whether the 5-byte large-packet
// header shape is in use, based on the top bit of the header's first
// byte. Callers read InboundHeaderSizeSmall bytes first, inspect this,
// and read one more byte only if it reports true.
func InboundHeaderHasExtraByte(first4 [InboundHeaderSizeSmall]byte) bool {
	return first4[0]&0x80 != 0
}

// DecodeInboundHeaderSmall parses the 4-byte header shape: a big-endian
// uint16 size field (top bit clear) followed by a little-endian uint16
// opcode. The size field counts everything after itself as a 4-byte
// Opcodes value (sizeof(Opcodes) on the wire this was grounded on), not
// the 2-byte width Server uses once decoded, so bodyLen subtracts 4.
func DecodeInboundHeaderSmall(h [InboundHeaderSizeSmall]byte) (opcode uint16, bodyLen int) {
	size := uint16(h[0])<<8 | uint16(h[1])
	opcode = uint16(h[2]) | uint16(h[3])<<8
	return opcode, int(size) - 4
}

// DecodeInboundHeaderLarge parses the 5-byte header shape: a 23-bit
// big-endian size field (the first byte's top bit is the shape flag, not
// part of the size) followed by a little-endian uint16 opcode. As in the
// small shape, the size field was written against a 4-byte Opcodes
// width, so bodyLen subtracts 4.
func DecodeInboundHeaderLarge(h [InboundHeaderSizeLarge]byte) (opcode uint16, bodyLen int) {
	size := uint32(h[0]&0x7F)<<16 | uint32(h[1])<<8 | uint32(h[2])
	opcode = uint16(h[3]) | uint16(h[4])<<8
	return opcode, int(size) - 4
}

// EncodeInboundHeader builds whichever header shape bodyLen requires;
// used by tests to exercise DecodeInboundHeaderSmall/Large against
// known-good input, since a client never originates this shape on the
// wire itself.
func EncodeInboundHeader(opcode uint16, bodyLen int) []byte {
	size := uint32(bodyLen + 4)
	if size < inboundLargeThreshold {
		h := make([]byte, InboundHeaderSizeSmall)
		h[0] = byte(size >> 8)
		h[1] = byte(size)
		h[2] = byte(opcode)
		h[3] = byte(opcode >> 8)
		return h
	}
	h := make([]byte, InboundHeaderSizeLarge)
	h[0] = byte(size>>16) | 0x80
	h[1] = byte(size >> 8)
	h[2] = byte(size)
	h[3] = byte(opcode)
	h[4] = byte(opcode >> 8)
	return h
}
