// Package idcodec provides short, reversible tokens for the ordinal IDs
// C6's DependencyIndex assigns its DocumentURIs. It delegates the base-63
// digit algorithm itself to internal/encoding.
//
// Base-63 Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), _ (62)
package idcodec

import (
	"github.com/flexiformal/flams-core/internal/encoding"
)

const (
	Base     = encoding.Base63
	Alphabet = encoding.Alphabet63
)

var (
	ErrEmptyString = encoding.ErrEmptyString
	ErrInvalidChar = encoding.ErrInvalidChar
	ErrOverflow    = encoding.ErrOverflow
)

// Encode encodes a uint64 value to a base-63 string. Returns "A" for zero.
func Encode(value uint64) string {
	return encoding.Base63Encode(value)
}

// EncodeNoZero encodes a uint64 value to a base-63 string, returning the
// empty string for zero (used where 0 means "absent" rather than a value).
func EncodeNoZero(value uint64) string {
	return encoding.Base63EncodeNoZero(value)
}

// Decode decodes a base-63 string to a uint64 value.
func Decode(encoded string) (uint64, error) {
	return encoding.Base63Decode(encoded)
}

// IsValid reports whether encoded is a well-formed base-63 token.
func IsValid(encoded string) bool {
	return encoding.Base63IsValid(encoded)
}
