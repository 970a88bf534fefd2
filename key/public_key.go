package key

import (
	"github.com/abcfe/avax-types/common/crypto"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/btcsuite/btcd/btcec"
)

// PublicKey is a secp256k1 public key with its derived identifiers.
type PublicKey struct {
	pub   *btcec.PublicKey
	short prt.ShortID
	eth   prt.EthAddress
}

func NewPublicKey(pub *btcec.PublicKey) (*PublicKey, error) {
	short, err := crypto.HashSHA256RIPEMD160(pub.SerializeCompressed())
	if err != nil {
		return nil, err
	}
	eth, err := crypto.PublicKeyToEthAddress(pub.SerializeUncompressed())
	if err != nil {
		return nil, err
	}

	k := &PublicKey{pub: pub, eth: eth}
	copy(k.short[:], short)
	return k, nil
}

// ParsePublicKey accepts 33-byte compressed or 65-byte uncompressed keys.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	pub, err := crypto.ParsePublicKey(b)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(pub)
}

// Bytes returns the 33-byte compressed form.
func (k *PublicKey) Bytes() []byte {
	return k.pub.SerializeCompressed()
}

// UncompressedBytes returns the 65-byte 0x04||X||Y form.
func (k *PublicKey) UncompressedBytes() []byte {
	return k.pub.SerializeUncompressed()
}

func (k *PublicKey) BTCEC() *btcec.PublicKey {
	return k.pub
}

func (k *PublicKey) ShortID() prt.ShortID {
	return k.short
}

func (k *PublicKey) NodeID() prt.NodeID {
	return prt.NodeID(k.short)
}

func (k *PublicKey) EthAddress() prt.EthAddress {
	return k.eth
}

// EthAddressString returns the "0x"-prefixed EIP-55 form.
func (k *PublicKey) EthAddressString() string {
	return crypto.HexPrefix + crypto.EthChecksum(k.eth.Hex())
}

// AvaxAddress formats the short id for networkID, e.g. "X-avax1...".
// An empty chainAlias yields the bare bech32 string.
func (k *PublicKey) AvaxAddress(networkID uint32, chainAlias string) (string, error) {
	return crypto.FormatAvaxAddress(chainAlias, prt.HRP(networkID), k.short[:])
}

func (k *PublicKey) Equal(o *PublicKey) bool {
	return o != nil && k.pub.IsEqual(o.pub)
}
