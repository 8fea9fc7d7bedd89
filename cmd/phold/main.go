package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "phold",
	Short: "Partitioned-conservative PHOLD discrete-event simulation benchmark",
	Long: `phold runs the classical Fujimoto PHOLD synthetic workload over a
partitioned-conservative discrete-event scheduler: N logical processes
exchanging timestamped events along a fully-connected graph with a
positive lookahead, driven to completion by two tree-structured
out-of-band barriers.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (built-in defaults when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
