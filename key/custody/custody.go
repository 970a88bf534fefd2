// Package custody implements key.Signer for keys whose private half lives in
// a remote custody service. Only the key reference and the public key are
// held locally.
package custody

import (
	"context"
	"fmt"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/common/logger"
	"github.com/abcfe/avax-types/key"
	"github.com/pkg/errors"
)

const (
	stageFetchKey = "remote public key"
	stageSign     = "remote signing"
)

// Client is the transport to a custody service.
type Client interface {
	// GetPublicKey returns the DER SubjectPublicKeyInfo of keyID.
	GetPublicKey(ctx context.Context, keyID string) ([]byte, error)
	// Sign returns a DER ECDSA signature over the 32-byte digest.
	Sign(ctx context.Context, keyID string, digest []byte) ([]byte, error)
}

// Key is a custody-backed signer. It is safe for concurrent use.
type Key struct {
	client Client
	keyID  string
	pub    *key.PublicKey
}

var _ key.Signer = (*Key)(nil)

// New fetches and caches the public key for keyID.
func New(ctx context.Context, client Client, keyID string) (*Key, error) {
	if keyID == "" {
		return nil, errs.New(errs.KindMissingField, stageFetchKey, "key id is empty")
	}

	der, err := client.GetPublicKey(ctx, keyID)
	if err != nil {
		return nil, classify(ctx, stageFetchKey, err)
	}
	btcPub, err := crypto.ParsePublicKeyDER(der)
	if err != nil {
		return nil, errs.Wrap(errs.KindRemoteSigning, stageFetchKey, err)
	}
	pub, err := key.NewPublicKey(btcPub)
	if err != nil {
		return nil, err
	}

	logger.Info("custody key loaded: ", keyID, " ", pub.EthAddressString())
	return &Key{client: client, keyID: keyID, pub: pub}, nil
}

func (k *Key) KeyID() string {
	return k.keyID
}

func (k *Key) PublicKey() *key.PublicKey {
	return k.pub
}

func (k *Key) Info(networkID uint32) (*key.Info, error) {
	return key.NewInfo(key.TypeCustodyKey, k.keyID, k.pub, networkID)
}

// SignDigest asks the custody service to sign digest, then normalizes the
// returned DER signature to low-S and recovers v against the cached key.
// Failures are not retried.
func (k *Key) SignDigest(ctx context.Context, digest []byte) (crypto.Signature, error) {
	if len(digest) != 32 {
		return crypto.Signature{}, errs.New(errs.KindInvalidData, stageSign,
			"digest must be 32 bytes, got %d", len(digest))
	}

	der, err := k.client.Sign(ctx, k.keyID, digest)
	if err != nil {
		return crypto.Signature{}, classify(ctx, stageSign, err)
	}

	sig, err := crypto.SignatureFromDER(der, digest, k.pub.BTCEC())
	if err != nil {
		return crypto.Signature{}, errs.Wrap(errs.KindRemoteSigning, stageSign, err)
	}
	return sig, nil
}

func (k *Key) String() string {
	return fmt.Sprintf("CustodyKey(%s, %s)", k.keyID, k.pub.EthAddressString())
}

// classify maps transport errors onto error kinds. Deadline expiry is kept
// distinct so callers can decide whether to retry.
func classify(ctx context.Context, stage string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Wrap(errs.KindTimeout, stage, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return errs.Wrap(errs.KindCanceled, stage, err)
	}
	return errs.Wrap(errs.KindRemoteSigning, stage, err)
}
