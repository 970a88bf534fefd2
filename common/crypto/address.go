package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/abcfe/avax-types/common/errs"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/btcsuite/btcutil/bech32"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // short ids are defined over RIPEMD-160
	"golang.org/x/crypto/sha3"
)

const HexPrefix = "0x"

// swapped out in tests
var newRIPEMD160 func() hash.Hash = ripemd160.New

// HashSHA256RIPEMD160 converts public key bytes to the 20-byte short address.
func HashSHA256RIPEMD160(pubKeyBytes []byte) ([]byte, error) {
	digest := sha256.Sum256(pubKeyBytes)

	h := newRIPEMD160()
	h.Write(digest[:])
	out := h.Sum(nil)

	if len(out) != prt.ShortIDLen {
		return nil, errs.New(errs.KindInvalidData, "short id hash",
			"ripemd160 of sha256 must be %d-byte, got %d", prt.ShortIDLen, len(out))
	}
	return out, nil
}

// Keccak256 returns the legacy Keccak-256 digest of the concatenated inputs.
func Keccak256(data ...[]byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	h.Sum(out[:0])
	return out
}

// PublicKeyToEthAddress takes the last 20 bytes of Keccak-256 over the
// uncompressed X||Y coordinates (65-byte SEC1 form with the 0x04 tag).
func PublicKeyToEthAddress(uncompressed []byte) (prt.EthAddress, error) {
	var address prt.EthAddress
	if len(uncompressed) != 65 || uncompressed[0] != 0x04 {
		return address, errs.New(errs.KindInvalidData, "eth address",
			"expected 65-byte uncompressed public key, got %d bytes", len(uncompressed))
	}

	digest := Keccak256(uncompressed[1:])
	copy(address[:], digest[len(digest)-prt.EthAddressLen:])
	return address, nil
}

// EthChecksum applies EIP-55 mixed-case checksum to a hex address.
// The "0x" prefix is stripped and not re-added.
func EthChecksum(addr string) string {
	lower := strings.ToLower(strings.TrimPrefix(addr, HexPrefix))
	digest := Keccak256([]byte(lower))
	digestHex := hex.EncodeToString(digest[:])

	out := []byte(lower)
	for i := 0; i < len(out) && i < len(digestHex); i++ {
		c := out[i]
		if c >= 'a' && c <= 'f' && digestHex[i] >= '8' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

// FormatAvaxAddress bech32-encodes a short id under hrp and prefixes
// "<chainAlias>-" when an alias is given.
func FormatAvaxAddress(chainAlias, hrp string, short []byte) (string, error) {
	if len(short) != prt.ShortIDLen {
		return "", errs.New(errs.KindInvalidData, "bech32 encode",
			"short address must be %d bytes, got %d", prt.ShortIDLen, len(short))
	}

	conv, err := bech32.ConvertBits(short, 8, 5, true)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidData, "bech32 encode", err)
	}
	encoded, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidData, "bech32 encode", err)
	}

	if chainAlias == "" {
		return encoded, nil
	}
	return strings.TrimSuffix(chainAlias, "-") + "-" + encoded, nil
}

// AvaxAddressToShortBytes decodes a bech32 address, e.g. "P-avax1...",
// into its human-readable part and short address bytes.
func AvaxAddressToShortBytes(chainAlias, addr string) (string, []byte, error) {
	trimmed := strings.TrimSpace(addr)
	if chainAlias != "" {
		pfx := chainAlias
		if !strings.HasSuffix(pfx, "-") {
			pfx += "-"
		}
		trimmed = strings.TrimPrefix(trimmed, pfx)
	}

	hrp, data, err := bech32.Decode(trimmed)
	if err != nil {
		return "", nil, errs.Wrap(errs.KindDecodeFailure, "bech32 decode", err)
	}

	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errs.Wrap(errs.KindDecodeFailure, "bech32 convert bits", err)
	}
	return hrp, conv, nil
}
