package key

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap/zapcore"
)

const (
	stageLocalSign = "local signing"

	mnemonicEntropyBits = 256
)

// BIP-44 paths for the first account. C-chain wallets use the Ethereum
// coin type; X/P-chain wallets use Avalanche's.
const (
	EthDerivationPath  = "m/44'/60'/0'/0/0"
	AvaxDerivationPath = "m/44'/9000'/0'/0/0"
)

// LocalKey holds a secp256k1 private key in memory. Its String and log
// forms only show public data.
type LocalKey struct {
	priv *btcec.PrivateKey
	pub  *PublicKey
}

var _ Signer = (*LocalKey)(nil)

func newLocalKey(priv *btcec.PrivateKey) (*LocalKey, error) {
	pub, err := NewPublicKey(priv.PubKey())
	if err != nil {
		return nil, err
	}
	return &LocalKey{priv: priv, pub: pub}, nil
}

// Generate creates a new random key.
func Generate() (*LocalKey, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return newLocalKey(priv)
}

// FromBytes imports a raw 32-byte scalar.
func FromBytes(b []byte) (*LocalKey, error) {
	priv, err := crypto.PrivateKeyFromBytes(b)
	if err != nil {
		return nil, err
	}
	return newLocalKey(priv)
}

// FromHex imports a hex scalar with or without "0x".
func FromHex(s string) (*LocalKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), crypto.HexPrefix))
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "key import", err)
	}
	return FromBytes(b)
}

// FromMnemonic derives the key at EthDerivationPath from a BIP-39 phrase
// and optional passphrase, the account wallets such as MetaMask and Core
// show first.
func FromMnemonic(mnemonic, passphrase string) (*LocalKey, error) {
	return FromMnemonicPath(mnemonic, passphrase, EthDerivationPath)
}

// FromMnemonicPath derives the key at a BIP-32 path. An empty path means
// EthDerivationPath.
func FromMnemonicPath(mnemonic, passphrase, path string) (*LocalKey, error) {
	if path == "" {
		path = EthDerivationPath
	}
	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), passphrase)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "mnemonic", err)
	}
	priv, err := crypto.DeriveKeyFromSeed(seed, path)
	if err != nil {
		return nil, err
	}
	return newLocalKey(priv)
}

// NewMnemonic returns a fresh 24-word phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidData, "mnemonic", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidData, "mnemonic", err)
	}
	return mnemonic, nil
}

func (k *LocalKey) PublicKey() *PublicKey {
	return k.pub
}

func (k *LocalKey) Info(networkID uint32) (*Info, error) {
	return NewInfo(TypeHotKey, "", k.pub, networkID)
}

// SignDigest signs a 32-byte digest in-process. The context is only
// checked for cancellation before signing.
func (k *LocalKey) SignDigest(ctx context.Context, digest []byte) (crypto.Signature, error) {
	if err := ctx.Err(); err != nil {
		return crypto.Signature{}, errs.Wrap(errs.ContextKind(err), stageLocalSign, err)
	}
	if len(digest) != 32 {
		return crypto.Signature{}, errs.New(errs.KindInvalidData, stageLocalSign,
			"digest must be 32 bytes, got %d", len(digest))
	}

	compact, err := btcec.SignCompact(btcec.S256(), k.priv, digest, false)
	if err != nil {
		return crypto.Signature{}, errs.Wrap(errs.KindInvalidData, stageLocalSign, err)
	}
	return crypto.SignatureFromCompact(compact)
}

func (k *LocalKey) String() string {
	return fmt.Sprintf("LocalKey(%s)", k.pub.EthAddressString())
}

// GoString keeps %#v from dumping the scalar.
func (k *LocalKey) GoString() string {
	return k.String()
}

func (k *LocalKey) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeHotKey)
	enc.AddString("eth_address", k.pub.EthAddressString())
	enc.AddString("short_address", k.pub.ShortID().String())
	return nil
}
