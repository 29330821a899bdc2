// Package fingerprint derives the stable identity used to match events across scrapes.
package fingerprint

import (
	"crypto/md5" //nolint:gosec // identity digest, not a security boundary
	"encoding/hex"
	"time"
)

// CanonicalLayout is the UTC, millisecond-precision form hashed into a fingerprint.
const CanonicalLayout = "2006-01-02T15:04:05.000Z"

const separator = "||"

// Fingerprint is a 32 character lowercase hex digest.
type Fingerprint string

// String returns the hex digest.
func (f Fingerprint) String() string {
	return string(f)
}

// Generate returns the fingerprint of an event identified by name and start instant.
// The instant is canonicalized to UTC so equal instants in different offsets hash the same.
// End date, price and location do not participate.
func Generate(name string, start time.Time) Fingerprint {
	sum := md5.Sum([]byte(name + separator + Canonical(start))) //nolint:gosec // see import
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Canonical formats t the way it is hashed.
func Canonical(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}
