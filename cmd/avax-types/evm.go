package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/abcfe/avax-types/app"
	"github.com/abcfe/avax-types/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func evmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evm",
		Short: "C-Chain transaction commands",
	}

	cmd.AddCommand(evmSendCmd())
	return cmd
}

func evmSendCmd() *cobra.Command {
	var (
		signerID string
		to       string
		value    string
		gasLimit uint64
		feeCap   string
		tipCap   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign an EIP-1559 transfer and broadcast it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(to) {
				return fmt.Errorf("invalid recipient %q", to)
			}
			amount, ok := new(big.Int).SetString(value, 10)
			if !ok {
				return fmt.Errorf("invalid value %q", value)
			}
			maxFee, ok := new(big.Int).SetString(feeCap, 10)
			if !ok {
				return fmt.Errorf("invalid max fee %q", feeCap)
			}
			maxTip, ok := new(big.Int).SetString(tipCap, 10)
			if !ok {
				return fmt.Errorf("invalid priority fee %q", tipCap)
			}

			application, err := app.New(configFile)
			if err != nil {
				return err
			}
			defer application.Cleanup()

			signer, err := application.Signer(signerID)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			w, closeFn, err := application.Wallet(ctx, signer)
			if err != nil {
				return err
			}
			defer closeFn()

			hash, err := w.Transfer(ctx, common.HexToAddress(to), amount, wallet.Fees{
				GasLimit:  gasLimit,
				GasFeeCap: maxFee,
				GasTipCap: maxTip,
			})
			if err != nil {
				return err
			}

			fmt.Printf("From: %s\n", w.Address().Hex())
			fmt.Printf("Tx hash: %s\n", hash.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&signerID, "signer", "", "Signer id (hot key or custody key id)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient hex address")
	cmd.Flags().StringVar(&value, "value", "0", "Amount in wei")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 21000, "Gas limit")
	cmd.Flags().StringVar(&feeCap, "max-fee", "25000000000", "Max fee per gas in wei")
	cmd.Flags().StringVar(&tipCap, "priority-fee", "1000000000", "Max priority fee per gas in wei")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}
