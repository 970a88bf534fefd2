package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// Client is a thin JSON-RPC client for the C-Chain endpoint.
type Client struct {
	rpc *rpc.Client
}

func Dial(ctx context.Context, endpoint string) (*Client, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", endpoint)
	}
	return &Client{rpc: c}, nil
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, errors.Wrap(err, "eth_chainId")
	}
	return (*big.Int)(&id), nil
}

// PendingNonce returns the next nonce for addr including pending txs.
func (c *Client) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &nonce, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, errors.Wrap(err, "eth_getTransactionCount")
	}
	return uint64(nonce), nil
}

// SendRawTransaction broadcasts a signed, encoded transaction.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, errors.Wrap(err, "eth_sendRawTransaction")
	}
	return hash, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}
