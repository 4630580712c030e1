// Package label converts short operator-chosen names to the numeric class
// identifiers stored by the face recognizer, and back.
//
// A label is one to MaxLen printable ASCII characters packed big-endian into
// an ID, so "ABCD" becomes 0x41424344. The packing never sets the top bit,
// which keeps every ID inside the recognizer's signed 32-bit label field.
package label

import (
	"errors"
	"fmt"
)

// MaxLen is the longest label that fits in an ID.
const MaxLen = 4

const (
	minChar = 0x20
	maxChar = 0x7e
)

// ErrEncoding reports a label that cannot be represented as an ID, or an ID
// that was not produced by Encode.
var ErrEncoding = errors.New("label encoding")

// ID is the packed numeric form of a label.
type ID uint32

// Int returns the ID as the recognizer's native label type.
func (id ID) Int() int { return int(id) }

// Validate reports whether text can be encoded.
func Validate(text string) error {
	if len(text) == 0 {
		return fmt.Errorf("%w: empty label", ErrEncoding)
	}
	if len(text) > MaxLen {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrEncoding, text, MaxLen)
	}
	for i := 0; i < len(text); i++ {
		if c := text[i]; c < minChar || c > maxChar {
			return fmt.Errorf("%w: byte 0x%02x at position %d is not printable ASCII", ErrEncoding, c, i)
		}
	}
	return nil
}

// Encode packs text into an ID.
func Encode(text string) (ID, error) {
	if err := Validate(text); err != nil {
		return 0, err
	}
	var id ID
	for i := 0; i < len(text); i++ {
		id = id<<8 | ID(text[i])
	}
	return id, nil
}

// Decode unpacks an ID produced by Encode.
func Decode(id ID) (string, error) {
	if id == 0 {
		return "", fmt.Errorf("%w: zero id", ErrEncoding)
	}
	var buf [MaxLen]byte
	n := 0
	for shift := 24; shift >= 0; shift -= 8 {
		c := byte(id >> uint(shift))
		if c == 0 && n == 0 {
			continue // leading zero bytes belong to shorter labels
		}
		if c < minChar || c > maxChar {
			return "", fmt.Errorf("%w: id 0x%08x holds non printable byte 0x%02x", ErrEncoding, uint32(id), c)
		}
		buf[n] = c
		n++
	}
	return string(buf[:n]), nil
}

// FromInt converts a recognizer label back to an ID. Values outside the
// uint32 range are rejected.
func FromInt(v int) (ID, error) {
	if v <= 0 || int64(v) > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: recognizer label %d out of range", ErrEncoding, v)
	}
	return ID(v), nil
}
