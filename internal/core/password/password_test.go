package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	require.Equal(t, StrongHash, s)

	s, err = ParseScheme(" Legacy-Base64 ")
	require.NoError(t, err)
	require.Equal(t, LegacyReversible, s)
	require.True(t, s.Insecure())

	_, err = ParseScheme("md5")
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestHasher_StrongHash(t *testing.T) {
	h, err := NewHasher(StrongHash, bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.NoError(t, h.Compare(hash, "s3cret"))
	require.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)
}

func TestHasher_LegacyReversible(t *testing.T) {
	h, err := NewHasher(LegacyReversible, bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("password")
	require.NoError(t, err)
	require.Equal(t, "b64:cGFzc3dvcmQ=", hash)

	require.NoError(t, h.Compare(hash, "password"))
	require.ErrorIs(t, h.Compare(hash, "passwore"), ErrMismatch)
}

func TestHasher_CompareAcceptsEitherScheme(t *testing.T) {
	strong, err := NewHasher(StrongHash, bcrypt.MinCost)
	require.NoError(t, err)
	legacy, err := NewHasher(LegacyReversible, bcrypt.MinCost)
	require.NoError(t, err)

	legacyHash, err := legacy.Hash("pw")
	require.NoError(t, err)
	require.NoError(t, strong.Compare(legacyHash, "pw"))

	strongHash, err := strong.Hash("pw")
	require.NoError(t, err)
	require.NoError(t, legacy.Compare(strongHash, "pw"))
}

func TestHasher_Rejects(t *testing.T) {
	h, err := NewHasher(StrongHash, bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash("")
	require.ErrorIs(t, err, ErrEmpty)
	require.ErrorIs(t, h.Compare("plaintext", "plaintext"), ErrMismatch)
	require.ErrorIs(t, h.Compare("b64:%%%", "x"), ErrMismatch)
	require.ErrorIs(t, h.CompareDummy("anything"), ErrMismatch)

	_, err = NewHasher(Scheme("sha1"), 10)
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestHasher_RejectsSecretsOverSeventyTwoBytes(t *testing.T) {
	for _, scheme := range []Scheme{StrongHash, LegacyReversible} {
		h, err := NewHasher(scheme, bcrypt.MinCost)
		require.NoError(t, err)

		// 72 characters but 144 bytes.
		_, err = h.Hash(strings.Repeat("é", 72))
		require.ErrorIs(t, err, ErrTooLong)

		_, err = h.Hash(strings.Repeat("a", MaxSecretBytes))
		require.NoError(t, err)
	}
}
