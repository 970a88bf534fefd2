package wallet

import (
	"context"
	"math/big"

	"github.com/abcfe/avax-types/common/logger"
	"github.com/abcfe/avax-types/key"
	"github.com/ethereum/go-ethereum/common"
)

// Fees are the gas settings for a transfer.
type Fees struct {
	GasLimit  uint64
	GasFeeCap *big.Int
	GasTipCap *big.Int
}

// Wallet ties a signing key to a chain endpoint.
type Wallet struct {
	signer key.Signer
	client *Client
}

func NewWallet(signer key.Signer, client *Client) *Wallet {
	return &Wallet{signer: signer, client: client}
}

func (w *Wallet) Address() common.Address {
	return common.Address(w.signer.PublicKey().EthAddress())
}

// Transfer sends value wei to `to`. Chain id and nonce are read from the
// endpoint by Send.
func (w *Wallet) Transfer(ctx context.Context, to common.Address, value *big.Int, fees Fees) (common.Hash, error) {
	tx := NewTransaction().
		WithGasLimit(fees.GasLimit).
		WithGasFeeCap(fees.GasFeeCap).
		WithGasTipCap(fees.GasTipCap).
		WithRecipient(to).
		WithValue(value)
	return w.Send(ctx, tx)
}

// Send signs tx and broadcasts it. A missing chain id or nonce is filled
// from the endpoint first.
//
// Once the node accepts the transaction the locally computed hash is
// returned even if the node reports a different one; the transaction is
// already in flight and failing here would invite a resend.
func (w *Wallet) Send(ctx context.Context, tx *Transaction) (common.Hash, error) {
	if !tx.HasChainID() {
		chainID, err := w.client.ChainID(ctx)
		if err != nil {
			return common.Hash{}, err
		}
		tx.WithChainID(chainID)
	}
	if !tx.HasNonce() {
		nonce, err := w.client.PendingNonce(ctx, w.Address())
		if err != nil {
			return common.Hash{}, err
		}
		tx.WithNonce(nonce)
	}

	signed, err := tx.Sign(ctx, w.signer)
	if err != nil {
		return common.Hash{}, err
	}

	hash, err := w.client.SendRawTransaction(ctx, signed.Raw)
	if err != nil {
		return common.Hash{}, err
	}
	if hash != signed.Hash {
		logger.Warn("node returned tx hash ", hash.Hex(), ", computed ", signed.Hash.Hex())
	}

	logger.Info("tx sent: ", signed.Hash.Hex(), " from ", signed.From.Hex(), " nonce ", signed.Tx.Nonce())
	return signed.Hash, nil
}
