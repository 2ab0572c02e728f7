package keys

import (
	"encoding/hex"
	"fmt"
)

// PoolSize is the size of a canonical pool key in bytes.
const PoolSize = 32

// poolLiteralLen is len("0x") + 2*PoolSize.
const poolLiteralLen = 2 + 2*PoolSize

// PoolID is the canonical form of an on-chain pool identifier.
type PoolID [PoolSize]byte

// ParsePoolID decodes a 0x-prefixed, 64-digit hex literal.
// Upper- and lower-case digits are accepted.
func ParsePoolID(s string) (PoolID, error) {
	var id PoolID
	if err := decodePool(&id, s); err != nil {
		return PoolID{}, err
	}
	return id, nil
}

// MustParsePoolID is like ParsePoolID but panics on malformed input.
func MustParsePoolID(s string) PoolID {
	id, err := ParsePoolID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func decodePool(dst *PoolID, s string) error {
	if len(s) != poolLiteralLen {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidPoolID, len(s), poolLiteralLen)
	}
	if s[0] != '0' || s[1] != 'x' {
		return fmt.Errorf("%w: missing 0x prefix", ErrInvalidPoolID)
	}
	for i := 2; i < len(s); i++ {
		if !isHex(s[i]) {
			return fmt.Errorf("%w: non-hex character %q at offset %d", ErrInvalidPoolID, s[i], i)
		}
	}
	if _, err := hex.Decode(dst[:], []byte(s[2:])); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPoolID, err)
	}
	return nil
}

// looksLikePool is the cheap shape check used while scanning documents.
func looksLikePool(s string) bool {
	if len(s) != poolLiteralLen || s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Bytes returns the canonical key. The slice aliases p.
func (p *PoolID) Bytes() []byte { return p[:] }

// AppendHex appends the lowercase 0x-prefixed literal of p to dst.
func (p PoolID) AppendHex(dst []byte) []byte {
	dst = append(dst, '0', 'x')
	return hex.AppendEncode(dst, p[:])
}

// String returns the lowercase 0x-prefixed literal of p.
func (p PoolID) String() string {
	var buf [poolLiteralLen]byte
	return string(p.AppendHex(buf[:0]))
}
