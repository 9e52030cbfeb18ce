package curve

import (
	"encoding/binary"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// EncodeVectorLen returns the 8-byte little-endian length prefix spec.md §6
// requires on every variable-length vector field in a composite type's
// canonical encoding.
func EncodeVectorLen(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

// DecodeVectorLen reads an 8-byte little-endian length prefix, returning the
// count and the remaining bytes after it.
func DecodeVectorLen(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, sterr.New("DecodeVectorLen", sterr.Serialization, "truncated vector length prefix")
	}
	return binary.LittleEndian.Uint64(b[:8]), b[8:], nil
}
