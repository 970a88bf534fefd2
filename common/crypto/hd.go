package crypto

import (
	"github.com/abcfe/avax-types/common/errs"
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/accounts"
)

const stageDerive = "key derivation"

// DeriveKeyFromSeed walks a BIP-32 path such as "m/44'/60'/0'/0/0" from a
// BIP-39 seed.
func DeriveKeyFromSeed(seed []byte, path string) (*btcec.PrivateKey, error) {
	dp, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, stageDerive, err)
	}

	ext, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, stageDerive, err)
	}
	for _, index := range dp {
		if ext, err = ext.Child(index); err != nil {
			return nil, errs.Wrap(errs.KindInvalidData, stageDerive, err)
		}
		// Child drops leading zero bytes of the private key, which
		// corrupts the next hardened step. The serialized form pads it.
		if ext, err = hdkeychain.NewKeyFromString(ext.String()); err != nil {
			return nil, errs.Wrap(errs.KindInvalidData, stageDerive, err)
		}
	}

	priv, err := ext.ECPrivKey()
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, stageDerive, err)
	}
	return priv, nil
}
