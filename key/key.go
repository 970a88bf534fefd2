// Package key provides the signing identities used across the node:
// in-process secp256k1 keys and, in key/custody, keys held by a remote
// custody service. Both satisfy Signer.
package key

import (
	"context"
	"encoding/hex"
	"encoding/json"

	"github.com/abcfe/avax-types/common/crypto"
	prt "github.com/abcfe/avax-types/protocol"
)

// Key types reported in Info.
const (
	TypeHotKey     = "hot"
	TypeCustodyKey = "custody"
)

// Signer produces recoverable signatures over 32-byte digests.
type Signer interface {
	PublicKey() *PublicKey
	Info(networkID uint32) (*Info, error)
	SignDigest(ctx context.Context, digest []byte) (crypto.Signature, error)
}

// Info is the public description of a key. It never carries secret material.
type Info struct {
	KeyType      string `json:"key_type"`
	KeyID        string `json:"key_id,omitempty"`
	NetworkID    uint32 `json:"network_id"`
	EthAddress   string `json:"eth_address"`
	ShortAddress string `json:"short_address"`
	XAddress     string `json:"x_address"`
	PAddress     string `json:"p_address"`
	CAddress     string `json:"c_address"`
	PublicKey    string `json:"public_key"`
}

// NewInfo fills the address fields for networkID.
func NewInfo(keyType, keyID string, pub *PublicKey, networkID uint32) (*Info, error) {
	info := &Info{
		KeyType:      keyType,
		KeyID:        keyID,
		NetworkID:    networkID,
		EthAddress:   pub.EthAddressString(),
		ShortAddress: pub.ShortID().String(),
		PublicKey:    crypto.HexPrefix + hex.EncodeToString(pub.Bytes()),
	}

	aliases := []struct {
		alias string
		dst   *string
	}{
		{prt.ChainAliasX, &info.XAddress},
		{prt.ChainAliasP, &info.PAddress},
		{prt.ChainAliasC, &info.CAddress},
	}
	for _, a := range aliases {
		addr, err := pub.AvaxAddress(networkID, a.alias)
		if err != nil {
			return nil, err
		}
		*a.dst = addr
	}
	return info, nil
}

func (i *Info) String() string {
	b, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
