package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/utils"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/spf13/cobra"
)

func addressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Address helpers",
	}

	cmd.AddCommand(addressParseCmd())
	cmd.AddCommand(addressChecksumCmd())
	return cmd
}

func addressParseCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "parse <bech32-address>",
		Short: "Decode a bech32 address such as X-avax1...",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			if alias == "" {
				if i := strings.Index(addr, "-"); i > 0 {
					alias = addr[:i]
				}
			}

			hrp, short, err := crypto.AvaxAddressToShortBytes(alias, addr)
			if err != nil {
				return err
			}
			shortID, err := prt.ToShortID(short)
			if err != nil {
				return err
			}

			fmt.Printf("HRP: %s\n", hrp)
			fmt.Printf("Short ID: %s\n", shortID)
			fmt.Printf("Short hex: %s\n", hex.EncodeToString(short))
			return nil
		},
	}

	cmd.Flags().StringVarP(&alias, "alias", "a", "", "Chain alias (X, P, C); inferred from the address when empty")
	return cmd
}

func addressChecksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <hex-address>",
		Short: "Print the EIP-55 form of a hex address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := utils.StringToEthAddress(args[0]); err != nil {
				return err
			}
			fmt.Println(crypto.HexPrefix + crypto.EthChecksum(args[0]))
			return nil
		},
	}
}
