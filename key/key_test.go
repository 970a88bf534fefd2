package key

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const (
	ewoqHex     = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"
	ewoqPub     = "0327448e78ffa8cdb24cf19be0204ad954b1bdb4db8c51183534c1eecf2ebd094e"
	ewoqShort   = "3cb7d3842e8cee6a0ebd09f1fe884f6861e1b29c"
	ewoqEth     = "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"
	ewoqMainnet = "avax18jma8ppw3nhx5r4ap8clazz0dps7rv5ukulre5"
	ewoqLocal   = "local18jma8ppw3nhx5r4ap8clazz0dps7rv5u00z96u"
)

func TestLocalKeyAddresses(t *testing.T) {
	k, err := FromHex("0x" + ewoqHex)
	require.NoError(t, err)

	pub := k.PublicKey()
	assert.Equal(t, ewoqPub, hex.EncodeToString(pub.Bytes()))
	assert.Len(t, pub.UncompressedBytes(), 65)
	short := pub.ShortID()
	assert.Equal(t, ewoqShort, hex.EncodeToString(short[:]))
	assert.Equal(t, ewoqEth, pub.EthAddressString())

	addr, err := pub.AvaxAddress(prt.MainnetID, "")
	require.NoError(t, err)
	assert.Equal(t, ewoqMainnet, addr)

	addr, err = pub.AvaxAddress(prt.LocalID, prt.ChainAliasX)
	require.NoError(t, err)
	assert.Equal(t, "X-"+ewoqLocal, addr)

	assert.True(t, strings.HasPrefix(pub.NodeID().String(), "NodeID-"))
}

func TestInfo(t *testing.T) {
	k, err := FromHex(ewoqHex)
	require.NoError(t, err)

	info, err := k.Info(prt.MainnetID)
	require.NoError(t, err)
	assert.Equal(t, TypeHotKey, info.KeyType)
	assert.Equal(t, ewoqEth, info.EthAddress)
	assert.Equal(t, "X-"+ewoqMainnet, info.XAddress)
	assert.Equal(t, "P-"+ewoqMainnet, info.PAddress)
	assert.Equal(t, "C-"+ewoqMainnet, info.CAddress)
	assert.Equal(t, "0x"+ewoqPub, info.PublicKey)

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(info.String()), &decoded))
	assert.Equal(t, *info, decoded)
	assert.NotContains(t, info.String(), ewoqHex)
}

func TestAddressRoundTripAllAliases(t *testing.T) {
	for i := 0; i < 5; i++ {
		k, err := Generate()
		require.NoError(t, err)
		short := k.PublicKey().ShortID()

		for _, alias := range []string{prt.ChainAliasX, prt.ChainAliasP, prt.ChainAliasC} {
			addr, err := k.PublicKey().AvaxAddress(prt.FujiID, alias)
			require.NoError(t, err)

			hrp, back, err := crypto.AvaxAddressToShortBytes(alias, addr)
			require.NoError(t, err)
			assert.Equal(t, prt.FujiHRP, hrp)
			assert.Equal(t, short[:], back)
		}
	}
}

func TestLocalKeySignDigest(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("avax"))

	sig, err := k.SignDigest(context.Background(), digest[:])
	require.NoError(t, err)
	assert.LessOrEqual(t, sig.V, byte(1))

	pub, err := crypto.RecoverPublicKey(sig, digest[:])
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(k.PublicKey().BTCEC()))

	_, err = k.SignDigest(context.Background(), digest[:31])
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = k.SignDigest(ctx, digest[:])
	assert.True(t, errs.Is(err, errs.KindCanceled))
	assert.False(t, errs.Is(err, errs.KindTimeout))

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	_, err = k.SignDigest(expired, digest[:])
	assert.True(t, errs.Is(err, errs.KindTimeout))
}

func TestFromMnemonic(t *testing.T) {
	const phrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	a, err := FromMnemonic(phrase, "")
	require.NoError(t, err)
	b, err := FromMnemonic(" "+phrase+"\n", "")
	require.NoError(t, err)
	assert.True(t, a.PublicKey().Equal(b.PublicKey()))

	c, err := FromMnemonic(phrase, "secret")
	require.NoError(t, err)
	assert.False(t, a.PublicKey().Equal(c.PublicKey()))

	_, err = FromMnemonic("abandon abandon", "")
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

func TestFromMnemonicPath(t *testing.T) {
	const phrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	eth, err := FromMnemonic(phrase, "")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", eth.PublicKey().EthAddressString())

	same, err := FromMnemonicPath(phrase, "", "")
	require.NoError(t, err)
	assert.True(t, eth.PublicKey().Equal(same.PublicKey()))

	avax, err := FromMnemonicPath(phrase, "", AvaxDerivationPath)
	require.NoError(t, err)
	assert.Equal(t, "0x38EDC949daC6a37Cf9d825e26f64aa2cb323cd82", avax.PublicKey().EthAddressString())

	_, err = FromMnemonicPath(phrase, "", "m/44'/60'/x")
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 24)

	_, err = FromMnemonic(m, "")
	assert.NoError(t, err)
}

func TestFromHexErrors(t *testing.T) {
	_, err := FromHex("zz")
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = FromHex("0x00")
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}

func TestLocalKeyDoesNotLeakSecret(t *testing.T) {
	k, err := FromHex(ewoqHex)
	require.NoError(t, err)

	for _, s := range []string{k.String(), fmt.Sprintf("%v", k), fmt.Sprintf("%#v", k), fmt.Sprintf("%+v", k)} {
		assert.NotContains(t, strings.ToLower(s), ewoqHex)
	}

	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, k.MarshalLogObject(enc))
	assert.Equal(t, ewoqEth, enc.Fields["eth_address"])
	for _, v := range enc.Fields {
		assert.NotContains(t, fmt.Sprint(v), ewoqHex)
	}
}

func TestParsePublicKey(t *testing.T) {
	k, err := Generate()
	require.NoError(t, err)

	p1, err := ParsePublicKey(k.PublicKey().Bytes())
	require.NoError(t, err)
	p2, err := ParsePublicKey(k.PublicKey().UncompressedBytes())
	require.NoError(t, err)
	assert.True(t, p1.Equal(p2))
	assert.Equal(t, k.PublicKey().EthAddress(), p1.EthAddress())

	_, err = ParsePublicKey([]byte{0x02, 0x01})
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}
