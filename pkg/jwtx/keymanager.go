package jwtx

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kikundi/chama/pkg/cryptox"
)

// KeyManager owns the signing keys of one API instance and the verifier
// that accepts tokens signed by any of them.
//
// Keys are ephemeral: they are generated at startup and only exist in
// memory, so every outstanding access token becomes invalid on restart.
// Clients recover through the refresh endpoint, whose tokens live in the
// database.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signers []*Signer
}

// KeyManagerOptions configures NewEphemeralKeyManager.
type KeyManagerOptions struct {
	// Issuer is written into and required on every token.
	Issuer string

	// NumKeys is how many signing keys to generate. Defaults to 1, capped
	// at 10.
	NumKeys int

	// Leeway allows small clock skew when validating exp and nbf.
	Leeway time.Duration
}

// NewEphemeralKeyManager generates opts.NumKeys Ed25519 keys and wires
// them into a KeySet and verifier.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	numKeys := max(opts.NumKeys, 1)
	numKeys = min(numKeys, 10)

	keyset := NewKeySet()
	signers := make([]*Signer, 0, numKeys)

	for i := range numKeys {
		kid, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		key, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}

		signer, err := NewSigner(kid, key)
		if err != nil {
			return nil, err
		}

		signers = append(signers, signer)
		keyset.AddSigner(signer)
	}

	return &KeyManager{
		Verifier: NewVerifier(keyset, opts.Issuer, opts.Leeway),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected signer.
func (km *KeyManager) GetSigner() *Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	return len(km.signers)
}

// Sign signs claims with one of the manager's keys.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	return km.GetSigner().Sign(claims)
}

// generateRandomKeyID creates a random key identifier "chama-{token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return "chama-" + token, nil
}
