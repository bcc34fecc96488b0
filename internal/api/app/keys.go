package app

import (
	"fmt"
	"log/slog"

	"github.com/kikundi/chama/pkg/jwtx"
)

// InitKeys generates the access token signing keys.
//
// Keys live only in memory, so every outstanding access token becomes invalid
// when the service restarts. Clients recover through the refresh endpoint.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	logger.Info("initializing ephemeral key manager", "num_keys", cfg.NumKeys)

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}

	logger.Info("generated ephemeral signing keys",
		"num_keys", keyManager.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("access tokens issued before this start are now invalid")

	return keyManager, nil
}
