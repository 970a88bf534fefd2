package crypto

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
)

const PrivateKeyLen = 32

var (
	oidPublicKeyECDSA      = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidNamedCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// RFC 5280 SubjectPublicKeyInfo, as returned by custody services.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// GenerateKey creates a secp256k1 key from crypto/rand.
func GenerateKey() (*btcec.PrivateKey, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "key generation", err)
	}
	return priv, nil
}

// PrivateKeyFromBytes imports a 32-byte scalar in [1, N-1].
func PrivateKeyFromBytes(b []byte) (*btcec.PrivateKey, error) {
	if len(b) != PrivateKeyLen {
		return nil, errs.New(errs.KindInvalidData, "key import", "private key must be %d bytes, got %d", PrivateKeyLen, len(b))
	}
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(btcec.S256().N) >= 0 {
		return nil, errs.New(errs.KindInvalidData, "key import", "private key out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)
	return priv, nil
}

// ParsePublicKey accepts compressed (33) or uncompressed (65) SEC1 bytes.
func ParsePublicKey(b []byte) (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "public key parse", err)
	}
	return pub, nil
}

// ParsePublicKeyDER parses a DER SubjectPublicKeyInfo holding a secp256k1 key.
func ParsePublicKeyDER(der []byte) (*btcec.PublicKey, error) {
	var spki subjectPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &spki)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "public key parse", err)
	}
	if len(rest) != 0 {
		return nil, errs.New(errs.KindInvalidData, "public key parse", "trailing data after public key")
	}
	if !spki.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, errs.New(errs.KindInvalidData, "public key parse", "not an EC public key: %v", spki.Algorithm.Algorithm)
	}

	var curve asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(spki.Algorithm.Parameters.FullBytes, &curve); err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "public key parse", err)
	}
	if !curve.Equal(oidNamedCurveSecp256k1) {
		return nil, errs.New(errs.KindInvalidData, "public key parse", "unsupported curve %v", curve)
	}
	return ParsePublicKey(spki.PublicKey.RightAlign())
}

// MarshalPublicKeyDER encodes pub as a DER SubjectPublicKeyInfo.
func MarshalPublicKeyDER(pub *btcec.PublicKey) ([]byte, error) {
	params, err := asn1.Marshal(oidNamedCurveSecp256k1)
	if err != nil {
		return nil, err
	}
	point := pub.SerializeUncompressed()
	return asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidPublicKeyECDSA,
			Parameters: asn1.RawValue{FullBytes: params},
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	})
}
