package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	prt "github.com/abcfe/avax-types/protocol"
)

const hexPrefix = "0x"

// BytesToHex encodes b with a 0x prefix.
func BytesToHex(b []byte) string {
	return hexPrefix + hex.EncodeToString(b)
}

// HexToBytes decodes hex with or without a 0x prefix.
func HexToBytes(str string) ([]byte, error) {
	str = strings.TrimPrefix(strings.TrimSpace(str), hexPrefix)
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %v", err)
	}
	return b, nil
}

// HexToDigest decodes a 32-byte digest.
func HexToDigest(str string) ([]byte, error) {
	b, err := HexToBytes(str)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("invalid digest length: %d (need 32 bytes)", len(b))
	}
	return b, nil
}

// StringToEthAddress parses a 20-byte hex address, checksum casing ignored.
func StringToEthAddress(str string) (prt.EthAddress, error) {
	var address prt.EthAddress
	b, err := HexToBytes(str)
	if err != nil {
		return address, err
	}
	if len(b) != prt.EthAddressLen {
		return address, fmt.Errorf("invalid address length: %d (need %d bytes)", len(b), prt.EthAddressLen)
	}
	copy(address[:], b)
	return address, nil
}

func SerializeData(data interface{}) ([]byte, error) {
	return json.Marshal(data)
}

func DeserializeData(data []byte, result interface{}) error {
	return json.Unmarshal(data, result)
}

func Uint64ToString(value uint64) string {
	return strconv.FormatUint(value, 10)
}

func StringToUint64(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
