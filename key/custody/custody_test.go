package custody

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/key"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ewoqHex = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"

// fakeClient signs with an in-memory key, optionally returning the high-S
// twin the way some custody services do.
type fakeClient struct {
	priv     *btcec.PrivateKey
	signWith *btcec.PrivateKey
	highS    bool
	block    bool
	err      error
	calls    int32
}

func (f *fakeClient) GetPublicKey(ctx context.Context, keyID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return crypto.MarshalPublicKeyDER(f.priv.PubKey())
}

func (f *fakeClient) Sign(ctx context.Context, keyID string, digest []byte) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	signer := f.priv
	if f.signWith != nil {
		signer = f.signWith
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	if f.highS {
		return rawDER(sig.R, new(big.Int).Sub(btcec.S256().N, sig.S)), nil
	}
	return sig.Serialize(), nil
}

func newFake(t *testing.T) *fakeClient {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &fakeClient{priv: priv}
}

func TestCustodyMatchesLocalKey(t *testing.T) {
	raw, _ := hex.DecodeString(ewoqHex)
	priv, err := crypto.PrivateKeyFromBytes(raw)
	require.NoError(t, err)
	local, err := key.FromBytes(raw)
	require.NoError(t, err)

	k, err := New(context.Background(), &fakeClient{priv: priv}, "alias/ewoq")
	require.NoError(t, err)

	assert.Equal(t, local.PublicKey().EthAddressString(), k.PublicKey().EthAddressString())
	assert.Equal(t, local.PublicKey().ShortID(), k.PublicKey().ShortID())

	localInfo, err := local.Info(prt.MainnetID)
	require.NoError(t, err)
	info, err := k.Info(prt.MainnetID)
	require.NoError(t, err)
	assert.Equal(t, key.TypeCustodyKey, info.KeyType)
	assert.Equal(t, "alias/ewoq", info.KeyID)
	assert.Equal(t, localInfo.XAddress, info.XAddress)
	assert.Equal(t, localInfo.EthAddress, info.EthAddress)

	digest := sha256.Sum256([]byte("same key, two backends"))
	sig, err := k.SignDigest(context.Background(), digest[:])
	require.NoError(t, err)
	pub, err := crypto.RecoverPublicKey(sig, digest[:])
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(local.PublicKey().BTCEC()))
}

func TestCustodySignNormalizesHighS(t *testing.T) {
	f := newFake(t)
	f.highS = true
	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		digest := sha256.Sum256([]byte{byte(i)})
		sig, err := k.SignDigest(context.Background(), digest[:])
		require.NoError(t, err)

		s := new(big.Int).SetBytes(sig.S[:])
		assert.True(t, s.Cmp(new(big.Int).Rsh(btcec.S256().N, 1)) <= 0)
		assert.True(t, sig.Verify(digest[:], f.priv.PubKey()))

		pub, err := crypto.RecoverPublicKey(sig, digest[:])
		require.NoError(t, err)
		assert.True(t, pub.IsEqual(f.priv.PubKey()))
	}
}

func TestCustodyTimeout(t *testing.T) {
	f := newFake(t)
	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)
	f.block = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	digest := sha256.Sum256([]byte("slow"))
	_, err = k.SignDigest(ctx, digest[:])
	assert.True(t, errs.Is(err, errs.KindTimeout))
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestCustodyCanceledIsNotTimeout(t *testing.T) {
	f := newFake(t)
	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)
	f.block = true

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	digest := sha256.Sum256([]byte("abandoned"))
	_, err = k.SignDigest(ctx, digest[:])
	assert.True(t, errs.Is(err, errs.KindCanceled))
	assert.False(t, errs.Is(err, errs.KindTimeout))
}

func TestCustodyRemoteFailureNotRetried(t *testing.T) {
	f := newFake(t)
	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)
	f.err = errors.New("AccessDeniedException")

	digest := sha256.Sum256([]byte("denied"))
	_, err = k.SignDigest(context.Background(), digest[:])
	assert.True(t, errs.Is(err, errs.KindRemoteSigning))
	assert.Contains(t, err.Error(), "remote signing")
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
}

func TestCustodySignatureFromOtherKey(t *testing.T) {
	f := newFake(t)
	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)
	f.signWith, _ = crypto.GenerateKey()

	digest := sha256.Sum256([]byte("mismatch"))
	_, err = k.SignDigest(context.Background(), digest[:])
	assert.True(t, errs.Is(err, errs.KindRemoteSigning))
}

func TestCustodyInputValidation(t *testing.T) {
	f := newFake(t)
	_, err := New(context.Background(), f, "")
	assert.True(t, errs.Is(err, errs.KindMissingField))

	k, err := New(context.Background(), f, "k1")
	require.NoError(t, err)
	_, err = k.SignDigest(context.Background(), []byte{1, 2, 3})
	assert.True(t, errs.Is(err, errs.KindInvalidData))
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.calls))
}

func TestNewFetchFailures(t *testing.T) {
	f := newFake(t)
	f.err = context.DeadlineExceeded
	_, err := New(context.Background(), f, "k1")
	assert.True(t, errs.Is(err, errs.KindTimeout))

	_, err = New(context.Background(), garbageKeyClient{}, "k1")
	assert.True(t, errs.Is(err, errs.KindRemoteSigning))
}

type garbageKeyClient struct{}

func (garbageKeyClient) GetPublicKey(context.Context, string) ([]byte, error) {
	return []byte{0x30, 0x00}, nil
}

func (garbageKeyClient) Sign(context.Context, string, []byte) ([]byte, error) {
	return nil, nil
}

func rawDER(r, s *big.Int) []byte {
	rb, sb := derInt(r.Bytes()), derInt(s.Bytes())
	out := []byte{0x30, byte(4 + len(rb) + len(sb)), 0x02, byte(len(rb))}
	out = append(out, rb...)
	out = append(out, 0x02, byte(len(sb)))
	return append(out, sb...)
}

func derInt(b []byte) []byte {
	if len(b) > 0 && b[0]&0x80 != 0 {
		return append([]byte{0x00}, b...)
	}
	return b
}
