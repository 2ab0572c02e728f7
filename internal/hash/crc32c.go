package hash

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the Castagnoli checksum recorded for artifacts in the
// manifest.
func CRC32C(data []byte) uint32 { return crc32.Checksum(data, castagnoli) }

// NewCRC32C returns a streaming CRC32C for artifacts written incrementally.
func NewCRC32C() hash.Hash32 { return crc32.New(castagnoli) }
