package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// GenerateEd25519Key generates a new Ed25519 signing key.
func GenerateEd25519Key() (ed25519.PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}
	return key, nil
}
