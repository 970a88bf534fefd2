package main

import (
	"context"
	"fmt"

	"github.com/abcfe/avax-types/app"
	conf "github.com/abcfe/avax-types/config"
	"github.com/abcfe/avax-types/key"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/spf13/cobra"
)

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Key management commands",
	}

	cmd.AddCommand(keyGenerateCmd())
	cmd.AddCommand(keyInfoCmd())
	cmd.AddCommand(keyListCmd())
	return cmd
}

func keyGenerateCmd() *cobra.Command {
	var (
		networkID uint32
		path      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new mnemonic and print its addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic, err := key.NewMnemonic()
			if err != nil {
				return err
			}
			k, err := key.FromMnemonicPath(mnemonic, "", path)
			if err != nil {
				return err
			}
			info, err := k.Info(networkID)
			if err != nil {
				return err
			}

			fmt.Println("=== New Key Created ===")
			fmt.Println("")
			fmt.Println("IMPORTANT: Write down your mnemonic phrase and keep it safe!")
			fmt.Printf("Mnemonic: %s\n", mnemonic)
			fmt.Println("")
			fmt.Println(info)
			return nil
		},
	}

	cmd.Flags().Uint32VarP(&networkID, "network-id", "n", prt.MainnetID, "Network id used for bech32 addresses")
	cmd.Flags().StringVar(&path, "path", key.EthDerivationPath, "BIP-44 derivation path")
	return cmd
}

func keyInfoCmd() *cobra.Command {
	var (
		networkID  uint32
		privateHex string
		useCustody bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print addresses of a key (hex, $" + conf.EnvMnemonic + ", or the configured custody key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				signer key.Signer
				err    error
			)
			switch {
			case useCustody:
				cfg, cerr := conf.NewConfig(configFile)
				if cerr != nil {
					return cerr
				}
				a := &app.App{Conf: *cfg}
				signer, err = a.CustodyKey(context.Background())
			case privateHex != "":
				signer, err = key.FromHex(privateHex)
			default:
				mnemonic, passphrase := conf.Mnemonic()
				if mnemonic == "" {
					return fmt.Errorf("set --hex, --custody or $%s", conf.EnvMnemonic)
				}
				signer, err = key.FromMnemonicPath(mnemonic, passphrase, path)
			}
			if err != nil {
				return err
			}

			info, err := signer.Info(networkID)
			if err != nil {
				return err
			}
			fmt.Println(info)
			return nil
		},
	}

	cmd.Flags().Uint32VarP(&networkID, "network-id", "n", prt.MainnetID, "Network id used for bech32 addresses")
	cmd.Flags().StringVar(&privateHex, "hex", "", "Hex private key")
	cmd.Flags().BoolVar(&useCustody, "custody", false, "Use the custody key from the config file")
	cmd.Flags().StringVar(&path, "path", key.EthDerivationPath, "BIP-44 derivation path for $"+conf.EnvMnemonic)
	return cmd
}

func keyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored key records",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(configFile)
			if err != nil {
				return err
			}
			defer application.Cleanup()

			infos, err := application.Keys.List()
			if err != nil {
				return err
			}

			fmt.Println("=== Stored Keys ===")
			for i, info := range infos {
				fmt.Printf("[%d] %s %s %s\n", i, info.KeyType, info.EthAddress, info.XAddress)
			}
			return nil
		},
	}
}
