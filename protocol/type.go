package protocol

import (
	"encoding/hex"
	"fmt"

	"github.com/abcfe/avax-types/common/cb58"
)

const (
	IDLen         = 32
	ShortIDLen    = 20
	EthAddressLen = 20

	nodeIDPrefix = "NodeID-"
)

// ID is a 32-byte identifier (chain id, tx id, ...).
type ID [IDLen]byte

// ShortID is the 20-byte RIPEMD-160(SHA-256(pubkey)) identifier.
type ShortID [ShortIDLen]byte

// NodeID identifies a peer; it shares the ShortID byte layout.
type NodeID ShortID

// EthAddress is the 20-byte keccak-derived (H160) address.
type EthAddress [EthAddressLen]byte

// EmptyID is the all-zero chain id.
var EmptyID = ID{}

func (id ID) String() string {
	return cb58.Encode(id[:])
}

func (id ID) Bytes() []byte {
	b := make([]byte, IDLen)
	copy(b, id[:])
	return b
}

// IDFromString parses a CB58 encoded ID.
func IDFromString(s string) (ID, error) {
	var id ID
	b, err := cb58.Decode(s)
	if err != nil {
		return id, err
	}
	if len(b) != IDLen {
		return id, fmt.Errorf("invalid id length: %d (need %d bytes)", len(b), IDLen)
	}
	copy(id[:], b)
	return id, nil
}

func (s ShortID) String() string {
	return cb58.Encode(s[:])
}

func (s ShortID) Bytes() []byte {
	b := make([]byte, ShortIDLen)
	copy(b, s[:])
	return b
}

// ToShortID only enforces the 20-byte size.
func ToShortID(b []byte) (ShortID, error) {
	var s ShortID
	if len(b) != ShortIDLen {
		return s, fmt.Errorf("invalid short id length: %d (need %d bytes)", len(b), ShortIDLen)
	}
	copy(s[:], b)
	return s, nil
}

func (n NodeID) String() string {
	return nodeIDPrefix + cb58.Encode(n[:])
}

// NodeIDFromString parses "NodeID-<cb58>".
func NodeIDFromString(s string) (NodeID, error) {
	var n NodeID
	if len(s) <= len(nodeIDPrefix) || s[:len(nodeIDPrefix)] != nodeIDPrefix {
		return n, fmt.Errorf("node id %q missing %q prefix", s, nodeIDPrefix)
	}
	short, err := IDBytesFromCB58(s[len(nodeIDPrefix):], ShortIDLen)
	if err != nil {
		return n, err
	}
	copy(n[:], short)
	return n, nil
}

// IDBytesFromCB58 decodes s and checks the decoded length.
func IDBytesFromCB58(s string, size int) ([]byte, error) {
	b, err := cb58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("invalid length: %d (need %d bytes)", len(b), size)
	}
	return b, nil
}

// Hex returns the lowercase hex form without prefix.
func (a EthAddress) Hex() string {
	return hex.EncodeToString(a[:])
}
