// Package main provides the command-line entry point for the
// co-simulation runtime: a Simulator side (simulate), a Hardware side
// (actuate), and a debug-monitor helper (monitor open). Structured as a
// thin cobra tree around the internal packages, the same shape the
// corpus's own akita CLI uses for its subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hilsim",
	Short: "Hardware-in-the-loop co-simulation runtime",
	Long: "hilsim runs either side of a paced hardware-in-the-loop co-simulation: " +
		"a Simulator that paces fixed-period steps over one TCP connection, " +
		"or a Hardware responder that answers each step as it arrives.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
