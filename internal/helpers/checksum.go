package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// shortIDLength keeps ids readable in logs while staying unique per definition.
const shortIDLength = 12

// Checksum returns the hex SHA-256 digest of a definition.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ShortID names a definition that carries no id of its own. Equal content
// always gets the same id, so a reloaded definition keeps its name.
func ShortID(content []byte) string {
	return Checksum(content)[:shortIDLength]
}
