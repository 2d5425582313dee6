// Package bignum provides arbitrary-precision non-negative integer
// arithmetic for the world session handshake: modular exponentiation and
// secure random nonce generation, the surface the session-key exchange
// depends on (see spec.md §4.1).
//
// All results are freshly allocated unless a method is documented as an
// in-place variant (the `*InPlace` suffix), mirroring the mutable
// `operator+=` style of the original BigNumber class this package is
// grounded on (original_source/src/Shared/Cryptography/BigNumber.h).
package bignum

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Int is a non-negative (conceptually signable, but only non-negative
// values are produced by this package's constructors) arbitrary-precision
// integer.
type Int struct {
	v *big.Int
}

// NewFromUint32 builds an Int from a 32-bit word.
func NewFromUint32(val uint32) *Int {
	return &Int{v: new(big.Int).SetUint64(uint64(val))}
}

// NewFromBytes builds an Int from a byte string in the given endianness.
// bigEndian selects the interpretation of buf; the value itself is always
// non-negative.
func NewFromBytes(buf []byte, bigEndian bool) *Int {
	b := make([]byte, len(buf))
	copy(b, buf)
	if !bigEndian {
		reverse(b)
	}
	return &Int{v: new(big.Int).SetBytes(b)}
}

// NewFromHex builds an Int from a hexadecimal string (no "0x" prefix
// required; one is tolerated).
func NewFromHex(s string) (*Int, error) {
	v, ok := new(big.Int).SetString(trimHexPrefix(s), 16)
	if !ok {
		return nil, fmt.Errorf("bignum: invalid hex string %q", s)
	}
	return &Int{v: v}, nil
}

// NewRandom returns a cryptographically secure random non-negative integer
// of exactly bits in width (the top bit is forced set so the value has the
// requested bit length, matching BigNumber::SetRandom's use for nonces in
// the handshake).
func NewRandom(bits int) (*Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("bignum: invalid random bit length %d", bits)
	}
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("bignum: random source failed: %w", err)
	}
	// buf[0] holds the most significant byte; when bits isn't a multiple
	// of 8 only its low (bits-1)%8+1 bits are part of the requested
	// width. Mask off anything above that before forcing the top bit, or
	// the random fill can leave the value wider than `bits`.
	topBit := uint(bits-1) % 8
	buf[0] &= 1<<(topBit+1) - 1
	buf[0] |= 1 << topBit
	return &Int{v: new(big.Int).SetBytes(buf)}, nil
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func (n *Int) clone() *Int { return &Int{v: new(big.Int).Set(n.v)} }

// Add returns a new Int holding self + other.
func (n *Int) Add(other *Int) *Int { return &Int{v: new(big.Int).Add(n.v, other.v)} }

// AddInPlace mutates self to self + other and returns self.
func (n *Int) AddInPlace(other *Int) *Int { n.v.Add(n.v, other.v); return n }

// Sub returns a new Int holding self - other.
func (n *Int) Sub(other *Int) *Int { return &Int{v: new(big.Int).Sub(n.v, other.v)} }

// SubInPlace mutates self to self - other and returns self.
func (n *Int) SubInPlace(other *Int) *Int { n.v.Sub(n.v, other.v); return n }

// Mul returns a new Int holding self * other.
func (n *Int) Mul(other *Int) *Int { return &Int{v: new(big.Int).Mul(n.v, other.v)} }

// MulInPlace mutates self to self * other and returns self.
func (n *Int) MulInPlace(other *Int) *Int { n.v.Mul(n.v, other.v); return n }

// Div returns a new Int holding self / other (integer division).
// Division by zero is fatal, matching §4.1's error model.
func (n *Int) Div(other *Int) *Int {
	if other.v.Sign() == 0 {
		panic("bignum: division by zero")
	}
	return &Int{v: new(big.Int).Div(n.v, other.v)}
}

// DivInPlace mutates self to self / other and returns self.
func (n *Int) DivInPlace(other *Int) *Int {
	if other.v.Sign() == 0 {
		panic("bignum: division by zero")
	}
	n.v.Div(n.v, other.v)
	return n
}

// Mod returns a new Int holding self mod other.
func (n *Int) Mod(other *Int) *Int {
	if other.v.Sign() == 0 {
		panic("bignum: division by zero")
	}
	return &Int{v: new(big.Int).Mod(n.v, other.v)}
}

// ModInPlace mutates self to self mod other and returns self.
func (n *Int) ModInPlace(other *Int) *Int {
	if other.v.Sign() == 0 {
		panic("bignum: division by zero")
	}
	n.v.Mod(n.v, other.v)
	return n
}

// ModExp computes base^exp mod m and returns the result as a new Int.
// This is the handshake's core primitive (SRP-style key derivation).
func ModExp(base, exp, m *Int) *Int {
	return &Int{v: new(big.Int).Exp(base.v, exp.v, m.v)}
}

// Exp computes self^x as a new Int (unbounded, no modulus).
func (n *Int) Exp(x *Int) *Int {
	return &Int{v: new(big.Int).Exp(n.v, x.v, nil)}
}

// Equal reports whether self == other.
func (n *Int) Equal(other *Int) bool { return n.v.Cmp(other.v) == 0 }

// LessThan reports whether self < other.
func (n *Int) LessThan(other *Int) bool { return n.v.Cmp(other.v) < 0 }

// GreaterThan reports whether self > other.
func (n *Int) GreaterThan(other *Int) bool { return n.v.Cmp(other.v) > 0 }

// IsZero reports whether self == 0.
func (n *Int) IsZero() bool { return n.v.Sign() == 0 }

// IsOne reports whether self == 1.
func (n *Int) IsOne() bool { return n.v.Cmp(big.NewInt(1)) == 0 }

// IsOdd reports whether self is odd.
func (n *Int) IsOdd() bool { return n.v.Bit(0) == 1 }

// IsEven reports whether self is even.
func (n *Int) IsEven() bool { return n.v.Bit(0) == 0 }

// IsNegative reports whether self is negative.
func (n *Int) IsNegative() bool { return n.v.Sign() < 0 }

// Negate returns a new Int holding -self.
func (n *Int) Negate() *Int { return &Int{v: new(big.Int).Neg(n.v)} }

// NumBytes returns the minimum number of bytes needed to hold the value's
// magnitude.
func (n *Int) NumBytes() int { return (n.v.BitLen() + 7) / 8 }

// AsUint32 returns the low 32 bits of the value.
func (n *Int) AsUint32() uint32 {
	if n.v.Sign() == 0 {
		return 0
	}
	masked := new(big.Int).And(n.v, new(big.Int).SetUint64(0xFFFFFFFF))
	return uint32(masked.Uint64())
}

// AsBytes returns the value's big-endian or little-endian byte
// representation, zero-padded on the left (for big-endian) or right (for
// little-endian, i.e. the high-order end) to at least minSize bytes.
func (n *Int) AsBytes(minSize int, littleEndian bool) []byte {
	raw := n.v.Bytes() // big-endian, no leading zero byte
	if len(raw) < minSize {
		padded := make([]byte, minSize)
		copy(padded[minSize-len(raw):], raw)
		raw = padded
	}
	if littleEndian {
		reverse(raw)
	}
	return raw
}

// AsHexString renders the value as uppercase hexadecimal, matching
// BigNumber::AsHexStr's OpenSSL-derived formatting.
func (n *Int) AsHexString() string {
	return fmt.Sprintf("%X", n.v)
}

// AsDecString renders the value as base-10.
func (n *Int) AsDecString() string {
	return n.v.String()
}

// Clone returns an independent copy of self.
func (n *Int) Clone() *Int { return n.clone() }

// String implements fmt.Stringer as the decimal representation.
func (n *Int) String() string { return n.AsDecString() }
