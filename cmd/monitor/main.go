package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/abcfe/avax-types/common/utils"
	"github.com/abcfe/avax-types/internal/monitor"
	"github.com/spf13/cobra"
)

var (
	BuildTime = "unknown"

	host     string
	ports    string
	logPaths string
	refresh  int
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "avax-types-monitor",
		Short: "Terminal monitor for running signer services",
		Long: `avax-types-monitor polls the REST API of one or more signer services
and tails their log files.

Examples:
  avax-types-monitor                          # localhost:8090
  avax-types-monitor --ports 8090,8091        # several services
  avax-types-monitor --log-paths ./log/a,./log/b`,
		Run: func(cmd *cobra.Command, args []string) {
			runMonitor()
		},
	}

	rootCmd.Flags().StringVar(&host, "host", "localhost", "service host")
	rootCmd.Flags().StringVar(&ports, "ports", "8090", "comma separated REST ports")
	rootCmd.Flags().StringVar(&logPaths, "log-paths", "~/.avax-types/logs/avax-types", "comma separated log_info.path values, one per port")
	rootCmd.Flags().IntVar(&refresh, "refresh", 1, "refresh interval in seconds")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("avax-types-monitor v%s (built: %s)\n", monitor.Version, BuildTime)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func runMonitor() {
	var portList []int
	for _, p := range strings.Split(ports, ",") {
		var port int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &port); err == nil {
			portList = append(portList, port)
		}
	}
	if len(portList) == 0 {
		fmt.Println("Error: no valid port")
		os.Exit(1)
	}

	var paths []string
	for _, p := range strings.Split(logPaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, utils.ExpandHome(p))
		}
	}

	cfg := monitor.Config{
		Host:       host,
		Ports:      portList,
		LogPaths:   paths,
		RefreshSec: refresh,
	}
	if err := monitor.Run(cfg); err != nil {
		fmt.Printf("Monitor error: %v\n", err)
		os.Exit(1)
	}
}
