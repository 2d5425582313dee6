// Package codec implements the growable octet buffer the world session
// protocol is built on: independent read/write cursors, little-endian
// scalar encoding, bit packing, and the packed GUID/XYZ/time encodings
// described in spec.md §4.2. It is grounded on
// original_source/src/Shared/Network/ByteBuffer.h, translated from the
// C++ exception-throwing ByteBuffer into explicit Go error returns per
// spec.md §9's reimplementation guidance.
package codec

import (
	"encoding/binary"
	"math"
)

const defaultReserve = 0x1000

// Buffer is a growable octet sequence with independent read and write
// cursors and a bit-packing scratch accumulator (spec.md §3, "Codec
// buffer"). The zero value is not usable; construct with NewBuffer.
type Buffer struct {
	data []byte
	rpos int
	wpos int

	bitpos    int // 0..8; 8 means the accumulator is empty (matches ByteBuffer's bitpos_ == 8 meaning "flushed")
	curbitval uint8
}

// NewBuffer returns an empty Buffer pre-allocated to hold at least
// reserve bytes without reallocating.
func NewBuffer(reserve int) *Buffer {
	if reserve <= 0 {
		reserve = defaultReserve
	}
	return &Buffer{
		data:   make([]byte, 0, reserve),
		bitpos: 8,
	}
}

// NewBufferFromBytes wraps an existing byte slice for reading; the write
// cursor starts at the end of the data (matching ByteBuffer::resize's
// convention of setting wpos to the new size).
func NewBufferFromBytes(data []byte) *Buffer {
	b := &Buffer{
		data:   make([]byte, len(data)),
		bitpos: 8,
	}
	copy(b.data, data)
	b.wpos = len(data)
	return b
}

// Size returns the number of bytes currently stored.
func (b *Buffer) Size() int { return len(b.data) }

// Empty reports whether the buffer holds no bytes.
func (b *Buffer) Empty() bool { return len(b.data) == 0 }

// Bytes returns the buffer's backing storage. Callers must not retain or
// mutate it across further Buffer writes, which may reallocate.
func (b *Buffer) Bytes() []byte { return b.data }

// RPos returns the current read cursor.
func (b *Buffer) RPos() int { return b.rpos }

// SetRPos repositions the read cursor without validating bounds, matching
// ByteBuffer::rpos(size_t)'s unchecked setter; callers that need bounds
// checking should use ReadSkip instead.
func (b *Buffer) SetRPos(pos int) { b.rpos = pos }

// WPos returns the current write cursor.
func (b *Buffer) WPos() int { return b.wpos }

// RFinish moves the read cursor to the write cursor, consuming the rest
// of the buffer without copying it anywhere.
func (b *Buffer) RFinish() { b.rpos = b.wpos }

// Clear empties the buffer and resets both cursors.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
	b.rpos = 0
	b.wpos = 0
	b.bitpos = 8
	b.curbitval = 0
}

// Reserve grows the backing storage's capacity to at least size without
// changing the buffer's logical content.
func (b *Buffer) Reserve(size int) {
	if size > cap(b.data) {
		grown := make([]byte, len(b.data), size)
		copy(grown, b.data)
		b.data = grown
	}
}

// Resize grows or truncates the buffer to newSize, zero-filling any newly
// added bytes, and repositions both cursors the way ByteBuffer::resize
// does: rpos to zero, wpos to the new size.
func (b *Buffer) Resize(newSize int) {
	if newSize <= len(b.data) {
		b.data = b.data[:newSize]
	} else {
		grown := make([]byte, newSize)
		copy(grown, b.data)
		b.data = grown
	}
	b.rpos = 0
	b.wpos = len(b.data)
}

// Drop removes the first length bytes, matching ByteBuffer::drop, and
// resets the read cursor to zero and the write cursor to the new size.
func (b *Buffer) Drop(length int) {
	if length >= len(b.data) {
		b.Clear()
		return
	}
	b.data = append(b.data[:0], b.data[length:]...)
	b.rpos = 0
	b.wpos = len(b.data)
}

// ---- raw byte-sequence append/read (§4.2 invariant i: no partial bytes) ----

// WriteBytes appends cnt raw bytes from src. A nil or empty src is a
// SourceError, matching ByteBuffer::append's precondition.
func (b *Buffer) WriteBytes(src []byte) error {
	if len(src) == 0 {
		return newSourceError("WriteBytes", b.wpos, b.Size(), 0)
	}
	b.flushBitsForByteWrite()
	b.data = append(b.data, src...)
	b.wpos += len(src)
	return nil
}

// ReadBytes reads exactly n raw bytes starting at the read cursor and
// advances it. On a position fault the cursor is left unchanged.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if b.rpos+n > b.Size() {
		return nil, newPositionError("ReadBytes", b.rpos, b.Size(), n)
	}
	out := make([]byte, n)
	copy(out, b.data[b.rpos:b.rpos+n])
	b.rpos += n
	return out, nil
}

// ReadSkip advances the read cursor by n bytes without copying them out,
// matching ByteBuffer::read_skip.
func (b *Buffer) ReadSkip(n int) error {
	if b.rpos+n > b.Size() {
		return newPositionError("ReadSkip", b.rpos, b.Size(), n)
	}
	b.rpos += n
	return nil
}

// Put overwrites cnt bytes at pos with src, without touching either
// cursor — used to patch in a length field reserved earlier in the
// stream.
func (b *Buffer) Put(pos int, src []byte) error {
	if pos+len(src) > b.Size() {
		return newPositionError("Put", pos, b.Size(), len(src))
	}
	if len(src) == 0 {
		return newSourceError("Put", pos, b.Size(), 0)
	}
	copy(b.data[pos:pos+len(src)], src)
	return nil
}

// flushBitsForByteWrite enforces invariant (i): a pending bit accumulator
// is flushed before any byte-aligned append. This is the Go port of the
// documented-but-unenforced C++ precondition (spec.md §4.2): here it is
// enforced automatically rather than left to caller discipline.
func (b *Buffer) flushBitsForByteWrite() {
	if b.bitpos != 8 {
		b.FlushBits()
	}
}

// ---- typed scalar writes (little-endian on the wire, always) ----

func (b *Buffer) WriteUint8(v uint8) error  { return b.WriteBytes([]byte{v}) }
func (b *Buffer) WriteInt8(v int8) error    { return b.WriteUint8(uint8(v)) }
func (b *Buffer) WriteBool(v bool) error {
	if v {
		return b.WriteUint8(1)
	}
	return b.WriteUint8(0)
}

func (b *Buffer) WriteUint16(v uint16) error {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *Buffer) WriteInt16(v int16) error { return b.WriteUint16(uint16(v)) }

func (b *Buffer) WriteUint32(v uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *Buffer) WriteInt32(v int32) error { return b.WriteUint32(uint32(v)) }

func (b *Buffer) WriteUint64(v uint64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.WriteBytes(tmp[:])
}

func (b *Buffer) WriteInt64(v int64) error { return b.WriteUint64(uint64(v)) }

func (b *Buffer) WriteFloat32(v float32) error {
	return b.WriteUint32(math.Float32bits(v))
}

func (b *Buffer) WriteFloat64(v float64) error {
	return b.WriteUint64(math.Float64bits(v))
}

// WriteString appends str's bytes followed by a single NUL terminator,
// matching ByteBuffer::operator<<(std::string const&).
func (b *Buffer) WriteString(str string) error {
	b.flushBitsForByteWrite()
	b.data = append(b.data, str...)
	b.data = append(b.data, 0)
	b.wpos += len(str) + 1
	return nil
}

// ---- typed scalar reads ----

func (b *Buffer) ReadUint8() (uint8, error) {
	raw, err := b.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

func (b *Buffer) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadUint8()
	return v != 0, err
}

func (b *Buffer) ReadUint16() (uint16, error) {
	raw, err := b.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *Buffer) ReadUint32() (uint32, error) {
	raw, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *Buffer) ReadUint64() (uint64, error) {
	raw, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

func (b *Buffer) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *Buffer) ReadFloat64() (float64, error) {
	v, err := b.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadUint16At peeks a uint16 at an arbitrary position without moving the
// read cursor, matching ByteBuffer::read<T>(size_t) const.
func (b *Buffer) ReadUint16At(pos int) (uint16, error) {
	if pos+2 > b.Size() {
		return 0, newPositionError("ReadUint16At", pos, b.Size(), 2)
	}
	return binary.LittleEndian.Uint16(b.data[pos : pos+2]), nil
}

// ReadUint32At peeks a uint32 at an arbitrary position without moving the
// read cursor.
func (b *Buffer) ReadUint32At(pos int) (uint32, error) {
	if pos+4 > b.Size() {
		return 0, newPositionError("ReadUint32At", pos, b.Size(), 4)
	}
	return binary.LittleEndian.Uint32(b.data[pos : pos+4]), nil
}

// ReadString reads bytes until a NUL terminator or until Size() is
// reached, whichever comes first, and consumes the terminator if one was
// found. There is no allocation-failure mode for this operation (spec.md
// §4.2).
func (b *Buffer) ReadString() string {
	start := b.rpos
	for b.rpos < b.Size() && b.data[b.rpos] != 0 {
		b.rpos++
	}
	out := string(b.data[start:b.rpos])
	if b.rpos < b.Size() {
		b.rpos++ // consume the NUL
	}
	return out
}

// ReadStringN reads exactly n bytes and returns them as a string,
// matching ByteBuffer::ReadString(uint32).
func (b *Buffer) ReadStringN(n int) (string, error) {
	raw, err := b.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ---- masked byte sequences (spec.md §4.2, "Byte-sequence operations") ----

// WriteByteSeq XORs mask with 1 and appends the result, but only when
// mask is non-zero — matching ByteBuffer::WriteByteSeq's masking used to
// obscure individual GUID bytes.
func (b *Buffer) WriteByteSeq(mask uint8) error {
	if mask == 0 {
		return nil
	}
	return b.WriteUint8(mask ^ 1)
}

// ReadByteSeq reads one byte and XORs it into *mask, but only when *mask
// is non-zero on entry — the reader half of WriteByteSeq.
func (b *Buffer) ReadByteSeq(mask *uint8) error {
	if *mask == 0 {
		return nil
	}
	v, err := b.ReadUint8()
	if err != nil {
		return err
	}
	*mask ^= v
	return nil
}
