// Package identity derives short pseudonymous tags from secret seeds.
//
// A tag is the only thing other participants ever see: the seed itself is
// never stored or logged. Tags are deliberately short for readability, so
// collisions are possible and accepted.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// TagPrefix marks a derived tag in rendered output.
const TagPrefix = "@"

// tagHexLen is how many hex characters of the digest survive truncation.
const tagHexLen = 7

// Derive maps a seed to its stable pseudonymous tag, e.g. "@e0e0a1b".
// Same seed, same tag, always; the seed cannot be recovered from it.
func Derive(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return TagPrefix + hex.EncodeToString(sum[:])[:tagHexLen]
}
