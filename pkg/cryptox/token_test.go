package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		length int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.length)

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	fp := FingerprintToken(token)
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken(token), "fingerprint must be deterministic")
	require.NotEqual(t, fp, FingerprintToken(token+"x"))
	require.NotEqual(t, token, fp)
}

func TestGenerateEd25519Key(t *testing.T) {
	key, err := GenerateEd25519Key()
	require.NoError(t, err)
	require.Len(t, key, 64)
}
