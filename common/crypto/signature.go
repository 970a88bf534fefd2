package crypto

import (
	"math/big"

	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
)

const (
	SignatureLen = 65

	// compact signature header offset used by btcec
	compactMagic = 27
)

var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// Signature is a recoverable secp256k1 signature. V is the recovery id (0 or 1).
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// Bytes returns R || S || V.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureLen)
	copy(out[0:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}

// SignatureFromBytes parses R || S || V. V may be given as 27/28.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureLen {
		return sig, errs.New(errs.KindInvalidData, "signature parse",
			"signature must be %d bytes, got %d", SignatureLen, len(b))
	}
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	sig.V = b[64]
	if sig.V >= compactMagic {
		sig.V -= compactMagic
	}
	if sig.V > 1 {
		return sig, errs.New(errs.KindInvalidData, "signature parse", "invalid recovery id %d", b[64])
	}
	return sig, nil
}

// SignatureFromCompact converts btcec's [27+v(+4)] || R || S layout.
func SignatureFromCompact(c []byte) (Signature, error) {
	var sig Signature
	if len(c) != SignatureLen || c[0] < compactMagic {
		return sig, errs.New(errs.KindInvalidData, "signature parse", "malformed compact signature")
	}
	sig.V = (c[0] - compactMagic) &^ 4
	copy(sig.R[:], c[1:33])
	copy(sig.S[:], c[33:65])
	return sig, nil
}

func (s Signature) compact() []byte {
	out := make([]byte, SignatureLen)
	out[0] = compactMagic + s.V
	copy(out[1:33], s.R[:])
	copy(out[33:65], s.S[:])
	return out
}

func (s Signature) toBTCEC() *btcec.Signature {
	return &btcec.Signature{
		R: new(big.Int).SetBytes(s.R[:]),
		S: new(big.Int).SetBytes(s.S[:]),
	}
}

// DER returns the ASN.1 DER form (low-S normalized).
func (s Signature) DER() []byte {
	return s.toBTCEC().Serialize()
}

// Verify checks the signature against digest and pub.
func (s Signature) Verify(digest []byte, pub *btcec.PublicKey) bool {
	if pub == nil {
		return false
	}
	return s.toBTCEC().Verify(digest, pub)
}

// RecoverPublicKey reconstructs the signer's public key from a signature
// over a 32-byte digest.
func RecoverPublicKey(sig Signature, digest []byte) (*btcec.PublicKey, error) {
	if len(digest) != 32 {
		return nil, errs.New(errs.KindInvalidData, "signature recovery", "digest must be 32 bytes, got %d", len(digest))
	}
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig.compact(), digest)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, "signature recovery", err)
	}
	return pub, nil
}

// SignatureFromDER normalizes a DER signature to low-S and determines the
// recovery id by matching the recovered key against pub.
func SignatureFromDER(der []byte, digest []byte, pub *btcec.PublicKey) (Signature, error) {
	var sig Signature

	parsed, err := btcec.ParseDERSignature(der, btcec.S256())
	if err != nil {
		return sig, errs.Wrap(errs.KindInvalidData, "signature parse", err)
	}

	s := new(big.Int).Set(parsed.S)
	if s.Cmp(halfOrder) > 0 {
		s.Sub(btcec.S256().N, s)
	}
	parsed.R.FillBytes(sig.R[:])
	s.FillBytes(sig.S[:])

	for v := byte(0); v < 2; v++ {
		sig.V = v
		rec, err := RecoverPublicKey(sig, digest)
		if err == nil && rec.IsEqual(pub) {
			return sig, nil
		}
	}
	return sig, errs.New(errs.KindInvalidData, "signature recovery", "no recovery id reproduces the public key")
}
