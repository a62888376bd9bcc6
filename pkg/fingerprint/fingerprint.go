// Package fingerprint derives a soft, non-cryptographic device fingerprint
// from a fixed ordered list of environment properties. Collisions are
// acceptable; this correlates visits, it does not prove identity.
package fingerprint

import (
	"strconv"
	"strings"
)

const componentSeparator = "###"

// Hash applies a 32-bit rolling string hash and renders it in base 36.
func Hash(s string) string {
	var h int32
	for _, r := range s {
		h = h<<5 - h + int32(r)
	}
	return strconv.FormatInt(int64(h), 36)
}

// FromComponents joins the property list in order and hashes it. The caller
// is responsible for keeping the component order fixed across sessions.
func FromComponents(components []string) string {
	return Hash(strings.Join(components, componentSeparator))
}
