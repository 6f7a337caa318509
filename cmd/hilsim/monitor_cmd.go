package main

import (
	"github.com/spf13/cobra"

	"hilsim/internal/monitor"
)

var monitorOpenAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Debug monitor helpers",
}

var monitorOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the running monitor's /status page in the local default browser",
	RunE: func(_ *cobra.Command, _ []string) error {
		return monitor.Open(monitorOpenAddr)
	},
}

func init() {
	monitorOpenCmd.Flags().StringVar(&monitorOpenAddr, "addr", "localhost:8080", "monitor host:port")
	monitorCmd.AddCommand(monitorOpenCmd)
	rootCmd.AddCommand(monitorCmd)
}
