package codec

import "testing"

func TestScalarRoundTrip(t *testing.T) {
	b := NewBuffer(64)
	if err := b.WriteUint8(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint16(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint32(0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint64(0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteFloat32(3.5); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteFloat64(2.25); err != nil {
		t.Fatal(err)
	}

	if v, err := b.ReadUint8(); err != nil || v != 0xAB {
		t.Fatalf("ReadUint8 = %x, %v", v, err)
	}
	if v, err := b.ReadUint16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadUint16 = %x, %v", v, err)
	}
	if v, err := b.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadUint32 = %x, %v", v, err)
	}
	if v, err := b.ReadUint64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("ReadUint64 = %x, %v", v, err)
	}
	if v, err := b.ReadFloat32(); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat32 = %v, %v", v, err)
	}
	if v, err := b.ReadFloat64(); err != nil || v != 2.25 {
		t.Fatalf("ReadFloat64 = %v, %v", v, err)
	}
}

func TestLittleEndianWireOrder(t *testing.T) {
	b := NewBuffer(8)
	if err := b.WriteUint32(0x01020304); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x04, 0x03, 0x02, 0x01}
	got := b.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %x, want %x", i, got[i], want[i])
		}
	}
}

func TestNulTerminatedString(t *testing.T) {
	b := NewBuffer(32)
	if err := b.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint8(0x42); err != nil {
		t.Fatal(err)
	}
	if got := b.ReadString(); got != "hello" {
		t.Fatalf("ReadString = %q, want %q", got, "hello")
	}
	if v, err := b.ReadUint8(); err != nil || v != 0x42 {
		t.Fatalf("trailing byte = %x, %v", v, err)
	}
}

func TestPositionFaultLeavesCursorUnchanged(t *testing.T) {
	b := NewBuffer(4)
	if err := b.WriteUint16(1); err != nil {
		t.Fatal(err)
	}
	before := b.RPos()
	_, err := b.ReadUint32()
	if err == nil {
		t.Fatal("expected position fault reading past end")
	}
	if _, ok := err.(*PositionError); !ok {
		t.Fatalf("expected *PositionError, got %T", err)
	}
	if b.RPos() != before {
		t.Fatalf("RPos moved after failed read: %d != %d", b.RPos(), before)
	}
}

func TestWriteBytesRejectsEmptySource(t *testing.T) {
	b := NewBuffer(4)
	err := b.WriteBytes(nil)
	if err == nil {
		t.Fatal("expected SourceError for nil source")
	}
	if _, ok := err.(*SourceError); !ok {
		t.Fatalf("expected *SourceError, got %T", err)
	}
}

func TestBitPackingRoundTrip(t *testing.T) {
	b := NewBuffer(16)
	if err := b.WriteBits(0x5, 3); err != nil { // 101
		t.Fatal(err)
	}
	if err := b.WriteBit(true); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteBits(0xA, 4); err != nil { // 1010, completes first byte
		t.Fatal(err)
	}
	if err := b.FlushBits(); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteUint8(0xFF); err != nil {
		t.Fatal(err)
	}

	if v, err := b.ReadBits(3); err != nil || v != 0x5 {
		t.Fatalf("ReadBits(3) = %x, %v", v, err)
	}
	if bit, err := b.ReadBit(); err != nil || !bit {
		t.Fatalf("ReadBit = %v, %v", bit, err)
	}
	if v, err := b.ReadBits(4); err != nil || v != 0xA {
		t.Fatalf("ReadBits(4) = %x, %v", v, err)
	}
	if v, err := b.ReadUint8(); err != nil || v != 0xFF {
		t.Fatalf("trailing byte = %x, %v", v, err)
	}
}

func TestPackedGUIDZero(t *testing.T) {
	b := NewBuffer(16)
	if err := b.WritePackedGUID(0); err != nil {
		t.Fatal(err)
	}
	if got := b.Size(); got != 1 {
		t.Fatalf("zero GUID encoded to %d bytes, want 1", got)
	}
	if b.Bytes()[0] != 0x00 {
		t.Fatalf("zero GUID mask byte = %x, want 0x00", b.Bytes()[0])
	}
	got, err := b.ReadPackedGUID()
	if err != nil || got != 0 {
		t.Fatalf("ReadPackedGUID = %x, %v", got, err)
	}
}

func TestPackedGUIDRoundTrip(t *testing.T) {
	// Byte 1 (0x00, second-least-significant) is the GUID's only zero
	// byte, so the mask should have every bit set except bit 1 (0xFD),
	// and the encoding should carry 7 stored bytes plus the mask byte.
	const guid = uint64(0xAABBCCDDEEFF0011)
	b := NewBuffer(16)
	if err := b.WritePackedGUID(guid); err != nil {
		t.Fatal(err)
	}
	if b.Bytes()[0] != 0xFD {
		t.Fatalf("mask byte = %x, want 0xFD", b.Bytes()[0])
	}
	if got := b.Size(); got != 8 {
		t.Fatalf("encoded size = %d, want 8", got)
	}
	got, err := b.ReadPackedGUID()
	if err != nil || got != guid {
		t.Fatalf("ReadPackedGUID = %x, %v, want %x", got, err, guid)
	}
}

func TestPackedXYZRoundTrip(t *testing.T) {
	// x/y carry 11 bits (range roughly ±256 at 0.25 resolution) and z
	// carries 10 (range roughly ±128); these values stay inside both.
	b := NewBuffer(8)
	if err := b.WritePackedXYZ(-120.5, 34.25, 15.0); err != nil {
		t.Fatal(err)
	}
	x, y, z, err := b.ReadPackedXYZ()
	if err != nil {
		t.Fatal(err)
	}
	const eps = 0.25
	if abs32(x-(-120.5)) > eps || abs32(y-34.25) > eps || abs32(z-15.0) > eps {
		t.Fatalf("ReadPackedXYZ = (%v,%v,%v), want roughly (-120.5,34.25,15.0)", x, y, z)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestOutboundFramerHeaderLayout(t *testing.T) {
	h := EncodeOutboundHeader(0x1EE, 10)
	if h[2] != 0xEE || h[3] != 0x01 || h[4] != 0 || h[5] != 0 {
		t.Fatalf("opcode bytes wrong: %x", h[2:])
	}
	size := uint16(h[0])<<8 | uint16(h[1])
	if size != 14 { // bodyLen(10) + opcode(4)
		t.Fatalf("size field = %d, want 14", size)
	}
}

func TestInboundFramerSmallShape(t *testing.T) {
	raw := EncodeInboundHeader(0x1F6, 100)
	if len(raw) != InboundHeaderSizeSmall {
		t.Fatalf("expected small header, got %d bytes", len(raw))
	}
	var h4 [InboundHeaderSizeSmall]byte
	copy(h4[:], raw)
	if InboundHeaderHasExtraByte(h4) {
		t.Fatal("small header should not flag an extra byte")
	}
	opcode, bodyLen := DecodeInboundHeaderSmall(h4)
	if opcode != 0x1F6 || bodyLen != 100 {
		t.Fatalf("decoded (opcode=%x, bodyLen=%d), want (1F6, 100)", opcode, bodyLen)
	}
}

func TestInboundFramerLargeShape(t *testing.T) {
	const bodyLen = 40000 // forces the size field past the 15-bit boundary
	raw := EncodeInboundHeader(0x42, bodyLen)
	if len(raw) != InboundHeaderSizeLarge {
		t.Fatalf("expected large header, got %d bytes", len(raw))
	}
	var h4 [InboundHeaderSizeSmall]byte
	copy(h4[:], raw[:4])
	if !InboundHeaderHasExtraByte(h4) {
		t.Fatal("large header should flag an extra byte")
	}
	var h5 [InboundHeaderSizeLarge]byte
	copy(h5[:], raw)
	opcode, gotBodyLen := DecodeInboundHeaderLarge(h5)
	if opcode != 0x42 || gotBodyLen != bodyLen {
		t.Fatalf("decoded (opcode=%x, bodyLen=%d), want (42, %d)", opcode, gotBodyLen, bodyLen)
	}
}

func TestWorldPacketOpcodeIsImmutable(t *testing.T) {
	p := NewWorldPacket(0x55, 16)
	if p.Opcode() != 0x55 {
		t.Fatalf("Opcode() = %x, want 0x55", p.Opcode())
	}
	if err := p.WriteUint32(1); err != nil {
		t.Fatal(err)
	}
	if p.Opcode() != 0x55 {
		t.Fatal("opcode changed after writing to the packet body")
	}
}
