// Package hash provides the CRC32-Castagnoli checksum used for artifact integrity.
//
// Every ordered-index artifact's CRC32C is recorded in the build manifest and
// re-checked when the artifact is loaded or fetched from remote storage.
//
//	checksum := hash.CRC32C(data)
//
//	h := hash.NewCRC32C()
//	_, _ = io.Copy(h, r)
//	checksum := h.Sum32()
package hash
