package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HashService_HashAndVerify(t *testing.T) {
	svc := NewArgon2HashService()

	password := "SecureP@ssw0rd!"
	hash, err := svc.Hash(password)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v="), "hash should be PHC formatted")
	assert.Contains(t, hash, "m=19456,t=2,p=1")

	match, err := svc.Verify(password, hash)
	require.NoError(t, err)
	assert.True(t, match, "correct password should verify")
}

func TestArgon2HashService_VerifyWrongPassword(t *testing.T) {
	svc := NewArgon2HashService()

	hash, err := svc.Hash("correct-password")
	require.NoError(t, err)

	match, err := svc.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestArgon2HashService_UniqueSalts(t *testing.T) {
	svc := NewArgon2HashService()

	hash1, err := svc.Hash("same-password")
	require.NoError(t, err)
	hash2, err := svc.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "each hash should carry a fresh salt")
}

func TestArgon2HashService_VerifyLegacyParams(t *testing.T) {
	// A hash stored under older, heavier parameters must still verify; the
	// encoded parameters drive derivation, not the service defaults.
	legacy := &Argon2HashService{params: argon2Params{
		memory:  64 * 1024,
		time:    1,
		threads: 4,
		saltLen: 16,
		keyLen:  32,
	}}
	hash, err := legacy.Hash("migrated-password")
	require.NoError(t, err)
	require.Contains(t, hash, "m=65536,t=1,p=4")

	match, err := NewArgon2HashService().Verify("migrated-password", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestArgon2HashService_EmptyPassword(t *testing.T) {
	svc := NewArgon2HashService()

	hash, err := svc.Hash("")
	require.NoError(t, err)

	match, err := svc.Verify("", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestArgon2HashService_VerifyMalformedHash(t *testing.T) {
	svc := NewArgon2HashService()

	cases := []string{
		"not-a-valid-hash",
		"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",  // wrong variant
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA", // wrong version
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",    // bad salt encoding
	}
	for _, tc := range cases {
		_, err := svc.Verify("password", tc)
		assert.Error(t, err, "hash %q should be rejected", tc)
	}
}

func TestArgon2HashService_LongPassword(t *testing.T) {
	svc := NewArgon2HashService()

	longPassword := strings.Repeat("a", 1000)
	hash, err := svc.Hash(longPassword)
	require.NoError(t, err)

	match, err := svc.Verify(longPassword, hash)
	require.NoError(t, err)
	assert.True(t, match)
}
