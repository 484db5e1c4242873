// Package digest computes and parses the 32-byte content fingerprints recorded on chain.
package digest

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Size is the digest length in bytes.
const Size = 32

var ErrInvalidHashFormat = errors.New("invalid hash format: expected 0x followed by 64 hex characters")

// Digest is a Keccak-256 content fingerprint.
type Digest [Size]byte

// String renders the digest as 0x followed by 64 lowercase hex characters.
func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

// MarshalText renders the digest in its 0x form for JSON and logs.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the same form Parse does.
func (d *Digest) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Of hashes the exact input bytes.
func Of(data []byte) Digest {
	// Keccak-256 output is always Size bytes, so Pad cannot fail here.
	d, _ := Pad(crypto.Keccak256(data))
	return d
}

// OfText hashes the UTF-8 bytes of text.
func OfText(text string) Digest {
	return Of([]byte(text))
}

// OfFile hashes file contents. With hexEncode set the bytes are hex-encoded before
// hashing, which reproduces digests recorded by older clients but no longer matches
// Of over the same bytes.
func OfFile(data []byte, hexEncode bool) Digest {
	if !hexEncode {
		return Of(data)
	}
	return OfText("0x" + hex.EncodeToString(data))
}

// Parse accepts a caller-supplied digest. The 0x prefix is required and exactly
// 64 hex characters must follow; upper case hex is accepted.
func Parse(s string) (Digest, error) {
	var d Digest
	s = strings.TrimSpace(s)
	if len(s) != 2+2*Size || !strings.HasPrefix(s, "0x") {
		return d, ErrInvalidHashFormat
	}
	if _, err := hex.Decode(d[:], []byte(s[2:])); err != nil {
		return Digest{}, ErrInvalidHashFormat
	}
	return d, nil
}

// Pad left-pads b with zeros up to Size bytes.
func Pad(b []byte) (Digest, error) {
	var d Digest
	if len(b) > Size {
		return d, ErrInvalidHashFormat
	}
	copy(d[Size-len(b):], b)
	return d, nil
}
