package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyFromBytesRange(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 32))
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = PrivateKeyFromBytes(btcec.S256().N.Bytes())
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = PrivateKeyFromBytes([]byte{1})
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	one := make([]byte, 32)
	one[31] = 1
	priv, err := PrivateKeyFromBytes(one)
	require.NoError(t, err)
	assert.Equal(t, 0, btcec.S256().Gx.Cmp(priv.PubKey().X))
}

func TestDeriveKeyFromSeed(t *testing.T) {
	// BIP-32 test vector 1
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	cases := map[string]string{
		"m/0'":                  "edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea",
		"m/0'/1/2'/2/1000000000": "471b76e389e528d6de6d816857e012c5455051cad6660850e58372a6c3e6e7c8",
	}
	for path, want := range cases {
		priv, err := DeriveKeyFromSeed(seed, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, hex.EncodeToString(priv.Serialize()), path)
	}
}

func TestDeriveKeyFromSeedKeepsLeadingZeros(t *testing.T) {
	// m/0' of this seed starts with a zero byte, which must survive into
	// the next hardened step.
	seed, _ := hex.DecodeString("00000000000000000000000000000051")
	priv, err := DeriveKeyFromSeed(seed, "m/0'")
	require.NoError(t, err)
	assert.Equal(t, "00a12f341e81363a0a51f3674953e4126ca215f534bf9dc5450ab60b35fffa13",
		hex.EncodeToString(priv.Serialize()))

	priv, err = DeriveKeyFromSeed(seed, "m/0'/0'")
	require.NoError(t, err)
	assert.Equal(t, "bf1e77f188d0017409eb1b5ffee554e1d5c2f57777ee60311a41e238329266aa",
		hex.EncodeToString(priv.Serialize()))
}

func TestDeriveKeyFromSeedBadPath(t *testing.T) {
	seed := make([]byte, 32)
	_, err := DeriveKeyFromSeed(seed, "m/44'/x")
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = DeriveKeyFromSeed([]byte{1}, "m/0")
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}


func TestPublicKeyDERRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)

	der, err := MarshalPublicKeyDER(priv.PubKey())
	require.NoError(t, err)

	pub, err := ParsePublicKeyDER(der)
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(priv.PubKey()))
}

func TestParsePublicKeyDERRejectsGarbage(t *testing.T) {
	_, err := ParsePublicKeyDER([]byte{0x01, 0x02})
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	priv, _ := GenerateKey()
	der, _ := MarshalPublicKeyDER(priv.PubKey())
	_, err = ParsePublicKeyDER(append(der, 0x00))
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}
