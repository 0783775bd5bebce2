package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "restifyctl",
	Short: "Run and manage a restify application server",
	Long: `restifyctl runs the example restify application server and manages
its database. Routes are generated from the registered models; see the
server subcommand to start serving them.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
