package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	require := require.New(t)

	ct, err := EncryptString("reporter@example.com")
	require.NoError(err)
	require.NotEqual("reporter@example.com", ct)

	pt, err := DecryptString(ct)
	require.NoError(err)
	require.Equal("reporter@example.com", pt)
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	require := require.New(t)

	a, err := EncryptString("555-0100")
	require.NoError(err)
	b, err := EncryptString("555-0100")
	require.NoError(err)
	require.NotEqual(a, b)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := DecryptString("bm90LWEtY2lwaGVydGV4dA==")
	require.Error(t, err)
}

func TestKeyFromEnvDerivedKeyLength(t *testing.T) {
	key, err := KeyFromEnv()
	require.NoError(t, err)
	require.Len(t, key, 32)
}
