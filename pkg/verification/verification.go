package verification

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// CodeLength is the fixed width of every one-time code.
const CodeLength = 6

// GenerateCode returns a fixed-width numeric one-time code suitable for
// human entry from an SMS.
func GenerateCode() string {
	var n uint32
	_ = binary.Read(rand.Reader, binary.LittleEndian, &n)
	code := int(n % 1000000)
	return fmt.Sprintf("%06d", code)
}
