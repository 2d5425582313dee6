package codec

import "time"

// WritePackedGUID appends guid using the mask-byte encoding: one leading
// byte whose set bits identify which of the GUID's 8 octets are
// non-zero, followed by exactly those non-zero octets in ascending order.
// A zero GUID therefore encodes as the single byte 0x00. Grounded on
// ByteBuffer::appendPackGUID.
func (b *Buffer) WritePackedGUID(guid uint64) error {
	var packed [9]byte
	size := 1
	for i := 0; i < 8 && guid != 0; i++ {
		if lo := byte(guid & 0xFF); lo != 0 {
			packed[0] |= 1 << uint(i)
			packed[size] = lo
			size++
		}
		guid >>= 8
	}
	return b.WriteBytes(packed[:size])
}

// ReadPackedGUID reads a mask-byte-encoded GUID written by
// WritePackedGUID. Grounded on ByteBuffer::readPackGUID.
func (b *Buffer) ReadPackedGUID() (uint64, error) {
	mask, err := b.ReadUint8()
	if err != nil {
		return 0, err
	}
	var guid uint64
	for i := 0; i < 8; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		v, err := b.ReadUint8()
		if err != nil {
			return 0, err
		}
		guid |= uint64(v) << uint(8*i)
	}
	return guid, nil
}

// WritePackedXYZ appends a position quantized to 0.25-unit steps and
// packed as x[0:11] | y[11:22] | z[22:32], matching
// ByteBuffer::appendPackXYZ exactly (x and y get 11 bits each, z gets the
// remaining 10).
func (b *Buffer) WritePackedXYZ(x, y, z float32) error {
	xi := int32(x/0.25) & 0x7FF
	yi := int32(y/0.25) & 0x7FF
	zi := int32(z/0.25) & 0x3FF
	packed := uint32(xi) | uint32(yi)<<11 | uint32(zi)<<22
	return b.WriteUint32(packed)
}

// ReadPackedXYZ reverses WritePackedXYZ, sign-extending each quantized
// field back to its signed value before scaling.
func (b *Buffer) ReadPackedXYZ() (x, y, z float32, err error) {
	packed, err := b.ReadUint32()
	if err != nil {
		return 0, 0, 0, err
	}
	x = float32(signExtend(packed&0x7FF, 11)) * 0.25
	y = float32(signExtend((packed>>11)&0x7FF, 11)) * 0.25
	z = float32(signExtend((packed>>22)&0x3FF, 10)) * 0.25
	return x, y, z, nil
}

func signExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// WritePackedTime packs t (in local time) into the field layout used by
// the original protocol, bit ranges from the LSB: minute[0:6] |
// hour[6:11] | weekday[11:14] | (day-1)[14:20] | (month-1)[20:24] |
// (year-2000)[24:29], matching ByteBuffer::AppendPackedTime. Note that the
// weekday field is written here but deliberately never read back by
// ReadPackedTime below — that asymmetry is preserved from the source
// protocol rather than "fixed".
func (b *Buffer) WritePackedTime(t time.Time) error {
	t = t.Local()
	packed := uint32(t.Year()-1900-100)<<24 |
		uint32(t.Month()-1)<<20 |
		uint32(t.Day()-1)<<14 |
		uint32(t.Weekday())<<11 |
		uint32(t.Hour())<<6 |
		uint32(t.Minute())
	return b.WriteUint32(packed)
}

// ReadPackedTime reads a packed timestamp and returns it as a Unix epoch
// second count.
//
// This intentionally reproduces a quirk in the source protocol: the
// decoded wall-clock fields (which carry no weekday, timezone, or
// seconds component) are first converted to a Unix time as if they were
// local wall-clock time, and then the local zone's offset from UTC is
// added a second time on top of that. For any zone other than UTC this
// yields a timestamp that is off by the zone offset. spec.md §9 flags
// this ambiguity as an open question and directs preserving observed
// behavior rather than correcting it, since downstream consumers may
// already compensate for it.
func (b *Buffer) ReadPackedTime() (int64, error) {
	packed, err := b.ReadUint32()
	if err != nil {
		return 0, err
	}
	minute := int(packed & 0x3F)
	hour := int((packed >> 6) & 0x1F)
	day := int((packed>>14)&0x3F) + 1
	month := int((packed >> 20) & 0xF)
	year := int((packed>>24)&0x1F) + 100

	local := time.Date(1900+year, time.Month(month+1), day, hour, minute, 0, 0, time.Local)
	_, offsetSeconds := local.Zone()
	return local.Unix() - int64(offsetSeconds), nil
}
