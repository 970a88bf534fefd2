package crypto

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactSignRecover(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("transfer 1 avax"))

	compact, err := btcec.SignCompact(btcec.S256(), priv, digest[:], false)
	require.NoError(t, err)

	sig, err := SignatureFromCompact(compact)
	require.NoError(t, err)
	assert.LessOrEqual(t, sig.V, byte(1))

	pub, err := RecoverPublicKey(sig, digest[:])
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(priv.PubKey()))
	assert.True(t, sig.Verify(digest[:], priv.PubKey()))
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	sig := Signature{V: 1}
	sig.R[0], sig.S[31] = 0xaa, 0xbb

	parsed, err := SignatureFromBytes(sig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	legacy := sig.Bytes()
	legacy[64] = 28
	parsed, err = SignatureFromBytes(legacy)
	require.NoError(t, err)
	assert.Equal(t, byte(1), parsed.V)

	legacy[64] = 5
	_, err = SignatureFromBytes(legacy)
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = SignatureFromBytes(legacy[:64])
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

func TestSignatureFromDERNormalizesHighS(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("custody"))

	low, err := priv.Sign(digest[:])
	require.NoError(t, err)

	// flip to the high-S twin, which custody services may return
	high := &btcec.Signature{R: low.R, S: new(big.Int).Sub(btcec.S256().N, low.S)}
	der := highSDER(high)

	sig, err := SignatureFromDER(der, digest[:], priv.PubKey())
	require.NoError(t, err)
	assert.Equal(t, 0, new(big.Int).SetBytes(sig.S[:]).Cmp(low.S))

	pub, err := RecoverPublicKey(sig, digest[:])
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(priv.PubKey()))
}

func TestSignatureFromDERWrongKey(t *testing.T) {
	priv, _ := GenerateKey()
	other, _ := GenerateKey()
	digest := sha256.Sum256([]byte("custody"))

	s, err := priv.Sign(digest[:])
	require.NoError(t, err)

	_, err = SignatureFromDER(s.Serialize(), digest[:], other.PubKey())
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = SignatureFromDER([]byte{0x30, 0x01}, digest[:], priv.PubKey())
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

func TestDERRoundTrip(t *testing.T) {
	priv, _ := GenerateKey()
	digest := sha256.Sum256([]byte("der"))
	compact, err := btcec.SignCompact(btcec.S256(), priv, digest[:], false)
	require.NoError(t, err)
	sig, err := SignatureFromCompact(compact)
	require.NoError(t, err)

	back, err := SignatureFromDER(sig.DER(), digest[:], priv.PubKey())
	require.NoError(t, err)
	assert.Equal(t, sig, back)
}

func TestRecoverPublicKeyBadDigest(t *testing.T) {
	_, err := RecoverPublicKey(Signature{}, []byte{1, 2, 3})
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

// highSDER encodes a signature without the low-S normalization
// that btcec.Signature.Serialize applies.
func highSDER(sig *btcec.Signature) []byte {
	r := canonicalInt(sig.R.Bytes())
	s := canonicalInt(sig.S.Bytes())
	out := []byte{0x30, byte(4 + len(r) + len(s)), 0x02, byte(len(r))}
	out = append(out, r...)
	out = append(out, 0x02, byte(len(s)))
	return append(out, s...)
}

func canonicalInt(b []byte) []byte {
	if len(b) > 0 && b[0]&0x80 != 0 {
		return append([]byte{0x00}, b...)
	}
	return b
}
