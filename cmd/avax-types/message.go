package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/abcfe/avax-types/common/utils"
	"github.com/abcfe/avax-types/message"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/spf13/cobra"
)

func messageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Peer-to-peer wire message helpers",
	}

	cmd.AddCommand(messageEncodeCmd())
	cmd.AddCommand(messageDecodeCmd())
	return cmd
}

func messageEncodeCmd() *cobra.Command {
	var (
		op        string
		chainID   string
		requestID uint32
		deadline  time.Duration
		payload   string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Serialize a message with its length header",
		RunE: func(cmd *cobra.Command, args []string) error {
			chain := prt.EmptyID
			if chainID != "" {
				id, err := prt.IDFromString(chainID)
				if err != nil {
					return err
				}
				chain = id
			}

			var body []byte
			if payload != "" {
				b, err := utils.HexToBytes(payload)
				if err != nil {
					return err
				}
				body = b
			}

			msg, err := message.Build(op, chain, requestID, deadline, body)
			if err != nil {
				return err
			}
			b, err := msg.SerializeWithHeader()
			if err != nil {
				return err
			}

			fmt.Println(msg)
			fmt.Println(hex.EncodeToString(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&op, "op", message.OpAppResponse, "Message kind, e.g. app_request")
	cmd.Flags().StringVar(&chainID, "chain-id", "", "CB58 chain id (zero id when empty)")
	cmd.Flags().Uint32Var(&requestID, "request-id", 0, "Request id")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "Deadline for request kinds")
	cmd.Flags().StringVar(&payload, "payload", "", "Hex payload")
	return cmd
}

func messageDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex>",
		Short: "Parse a serialized message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := utils.HexToBytes(args[0])
			if err != nil {
				return err
			}
			msg, err := message.Parse(b)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}
