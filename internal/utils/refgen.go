package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateReference generates a random reference with the given prefix.
// Format: prefix_randomhex
// Example: sr_a1b2c3d4e5f6
func GenerateReference(prefix string) (string, error) {
	b := make([]byte, 6) // 12 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateSellRequestReference generates a seller-facing tracking
// reference: sr_xxx
func GenerateSellRequestReference() (string, error) {
	return GenerateReference("sr")
}
