package http

import (
	"crypto/rand"
	"fmt"
)

// NewReportID generates a random opaque report identifier in canonical
// UUIDv4 form (without external dependency).
func NewReportID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])
}
