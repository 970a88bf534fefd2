package wallet

import (
	"context"
	"math/big"

	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/key"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	stageBuild = "transaction build"
	stageSign  = "transaction sign"
)

// Transaction builds an EIP-1559 (type 2) transaction. Setters return the
// receiver so calls can be chained; validation happens once, when the
// digest is computed.
type Transaction struct {
	chainID   *big.Int
	nonce     *uint64
	gasTipCap *big.Int
	gasFeeCap *big.Int
	gasLimit  uint64
	to        *common.Address
	value     *big.Int
	data      []byte
}

// SignedTx is a signed transaction ready for eth_sendRawTransaction.
type SignedTx struct {
	Tx   *types.Transaction
	Raw  []byte
	Hash common.Hash
	From common.Address
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) WithChainID(id *big.Int) *Transaction {
	t.chainID = id
	return t
}

func (t *Transaction) WithNonce(nonce uint64) *Transaction {
	t.nonce = &nonce
	return t
}

// WithGasTipCap sets max_priority_fee_per_gas in wei.
func (t *Transaction) WithGasTipCap(tip *big.Int) *Transaction {
	t.gasTipCap = tip
	return t
}

// WithGasFeeCap sets max_fee_per_gas in wei.
func (t *Transaction) WithGasFeeCap(fee *big.Int) *Transaction {
	t.gasFeeCap = fee
	return t
}

func (t *Transaction) WithGasLimit(gas uint64) *Transaction {
	t.gasLimit = gas
	return t
}

func (t *Transaction) WithRecipient(to common.Address) *Transaction {
	t.to = &to
	return t
}

func (t *Transaction) WithValue(value *big.Int) *Transaction {
	t.value = value
	return t
}

func (t *Transaction) WithData(data []byte) *Transaction {
	t.data = append([]byte(nil), data...)
	return t
}

func (t *Transaction) HasNonce() bool {
	return t.nonce != nil
}

func (t *Transaction) HasChainID() bool {
	return t.chainID != nil
}

func (t *Transaction) validate() error {
	switch {
	case t.chainID == nil || t.chainID.Sign() <= 0:
		return errs.New(errs.KindMissingField, stageBuild, "chain id is required")
	case t.nonce == nil:
		return errs.New(errs.KindMissingField, stageBuild, "nonce is required")
	case t.gasLimit == 0:
		return errs.New(errs.KindMissingField, stageBuild, "gas limit is required")
	case t.gasFeeCap == nil:
		return errs.New(errs.KindMissingField, stageBuild, "max fee per gas is required")
	case t.gasTipCap == nil:
		return errs.New(errs.KindMissingField, stageBuild, "max priority fee per gas is required")
	case t.to == nil:
		return errs.New(errs.KindMissingField, stageBuild, "recipient is required")
	}
	if t.gasTipCap.Cmp(t.gasFeeCap) > 0 {
		return errs.New(errs.KindInvalidData, stageBuild,
			"max priority fee %s exceeds max fee %s", t.gasTipCap, t.gasFeeCap)
	}
	if t.value != nil && t.value.Sign() < 0 {
		return errs.New(errs.KindInvalidData, stageBuild, "negative value %s", t.value)
	}
	return nil
}

// Unsigned returns the go-ethereum form of the transaction.
func (t *Transaction) Unsigned() (*types.Transaction, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	value := t.value
	if value == nil {
		value = new(big.Int)
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).Set(t.chainID),
		Nonce:     *t.nonce,
		GasTipCap: new(big.Int).Set(t.gasTipCap),
		GasFeeCap: new(big.Int).Set(t.gasFeeCap),
		Gas:       t.gasLimit,
		To:        t.to,
		Value:     new(big.Int).Set(value),
		Data:      t.data,
	}), nil
}

func (t *Transaction) signer() types.Signer {
	return types.NewLondonSigner(t.chainID)
}

// SignatureHash is the 32-byte digest that gets signed.
func (t *Transaction) SignatureHash() (common.Hash, error) {
	tx, err := t.Unsigned()
	if err != nil {
		return common.Hash{}, err
	}
	return t.signer().Hash(tx), nil
}

// Sign signs with any key.Signer and checks that the recovered sender is
// the signer's address.
func (t *Transaction) Sign(ctx context.Context, signer key.Signer) (*SignedTx, error) {
	tx, err := t.Unsigned()
	if err != nil {
		return nil, err
	}
	ethSigner := t.signer()
	digest := ethSigner.Hash(tx)

	sig, err := signer.SignDigest(ctx, digest[:])
	if err != nil {
		return nil, err
	}

	signed, err := tx.WithSignature(ethSigner, sig.Bytes())
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, stageSign, err)
	}

	from, err := types.Sender(ethSigner, signed)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidData, stageSign, err)
	}
	want := common.Address(signer.PublicKey().EthAddress())
	if from != want {
		return nil, errs.New(errs.KindInvalidData, stageSign, "recovered sender %s, want %s", from.Hex(), want.Hex())
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, errs.Wrap(errs.KindEncodingInvariant, stageSign, err)
	}
	return &SignedTx{Tx: signed, Raw: raw, Hash: signed.Hash(), From: from}, nil
}
