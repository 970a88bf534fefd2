package main

import (
	"fmt"
	"os"

	"github.com/abcfe/avax-types/app"
	"github.com/abcfe/avax-types/common/logger"
	"github.com/spf13/cobra"
)

// Version info (Injected from Makefile)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configFile string

func main() {
	var rootCmd = &cobra.Command{
		Use:     "avax-types",
		Short:   "Avalanche wire messages, addresses and signing keys",
		Long:    `Encode peer-to-peer messages, derive addresses, and sign with local or custody-held keys.`,
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
	}

	// Register global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(keyCmd())
	rootCmd.AddCommand(addressCmd())
	rootCmd.AddCommand(messageCmd())
	rootCmd.AddCommand(evmCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Failed to execute command:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the signer REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(configFile)
			if err != nil {
				return err
			}

			application.SigHandler()
			logger.Info("Signer service start.")

			if err := application.NewRest(); err != nil {
				logger.Error("Failed to start services: ", err)
				application.Terminate()
				return err
			}

			application.Wait()
			fmt.Println("Signer service terminated.")
			return nil
		},
	}
}
