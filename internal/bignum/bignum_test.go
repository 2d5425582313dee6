package bignum

import "testing"

func TestRoundTripBytes(t *testing.T) {
	cases := []struct {
		name      string
		bytes     []byte
		bigEndian bool
	}{
		{"big-endian", []byte{0x01, 0x02, 0x03, 0x04}, true},
		{"little-endian", []byte{0x04, 0x03, 0x02, 0x01}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := NewFromBytes(c.bytes, c.bigEndian)
			out := n.AsBytes(len(c.bytes), !c.bigEndian)
			if string(out) != string(c.bytes) {
				t.Fatalf("round trip mismatch: got %x want %x", out, c.bytes)
			}
		})
	}
}

func TestModExp(t *testing.T) {
	base := NewFromUint32(4)
	exp := NewFromUint32(13)
	mod := NewFromUint32(497)

	got := ModExp(base, exp, mod)
	want := NewFromUint32(445) // 4^13 mod 497 == 445

	if !got.Equal(want) {
		t.Fatalf("ModExp(4,13,497) = %s, want %s", got, want)
	}
}

func TestArithmetic(t *testing.T) {
	a := NewFromUint32(10)
	b := NewFromUint32(3)

	if got := a.Add(b); got.AsUint32() != 13 {
		t.Fatalf("Add = %d, want 13", got.AsUint32())
	}
	if got := a.Sub(b); got.AsUint32() != 7 {
		t.Fatalf("Sub = %d, want 7", got.AsUint32())
	}
	if got := a.Mul(b); got.AsUint32() != 30 {
		t.Fatalf("Mul = %d, want 30", got.AsUint32())
	}
	if got := a.Div(b); got.AsUint32() != 3 {
		t.Fatalf("Div = %d, want 3", got.AsUint32())
	}
	if got := a.Mod(b); got.AsUint32() != 1 {
		t.Fatalf("Mod = %d, want 1", got.AsUint32())
	}
}

func TestPredicates(t *testing.T) {
	zero := NewFromUint32(0)
	one := NewFromUint32(1)
	two := NewFromUint32(2)

	if !zero.IsZero() {
		t.Fatal("expected zero.IsZero()")
	}
	if !one.IsOne() {
		t.Fatal("expected one.IsOne()")
	}
	if !one.IsOdd() || two.IsOdd() {
		t.Fatal("odd/even predicates wrong")
	}
	if !two.IsEven() {
		t.Fatal("expected two.IsEven()")
	}
}

func TestDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on division by zero")
		}
	}()
	NewFromUint32(1).Div(NewFromUint32(0))
}

func TestNewRandomWidth(t *testing.T) {
	n, err := NewRandom(128)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	if n.NumBytes() > 16 {
		t.Fatalf("NumBytes() = %d, want <= 16", n.NumBytes())
	}
}

func TestHexRoundTrip(t *testing.T) {
	n := NewFromUint32(0xDEADBEEF)
	s := n.AsHexString()
	back, err := NewFromHex(s)
	if err != nil {
		t.Fatalf("NewFromHex(%q): %v", s, err)
	}
	if !n.Equal(back) {
		t.Fatalf("hex round trip mismatch: %s != %s", n, back)
	}
}
