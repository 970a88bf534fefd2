package utils

import (
	prt "github.com/abcfe/avax-types/protocol"
)

// "key:info:"
func GetKeyInfoKey(addr prt.EthAddress) []byte {
	return []byte(prt.PrefixKeyInfo + addr.Hex())
}

// "key:ref:"
// key:ref:KeyID = EthAddress(hex)
func GetKeyRefKey(keyID string) []byte {
	return []byte(prt.PrefixKeyRef + keyID)
}
