package cmd

import (
	"github.com/flightsurety/smart-contract/internal/access"

	"github.com/spf13/cobra"
)

// ExitPermissionDenied is the exit code when the configured key lacks a permission.
const ExitPermissionDenied = 77

var scCmd = &cobra.Command{
	Use:          "flightsurety",
	Short:        "Flight Surety ledger CLI",
	SilenceUsage: true,
}

func init() {
	scCmd.AddCommand(cmdGen)
	scCmd.AddCommand(cmdDerive)
	scCmd.AddCommand(cmdState)
	scCmd.AddCommand(cmdAuthorize)
	scCmd.AddCommand(cmdDeauthorize)
	scCmd.AddCommand(cmdOperating)
	scCmd.AddCommand(cmdRegister)
	scCmd.AddCommand(cmdFund)
	scCmd.AddCommand(cmdBalance)
}

// Execute runs the command named by the process arguments.
func Execute() error {
	return scCmd.Execute()
}

// ExitCode returns the process exit code for the error a command returned.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case access.IsPermissionDenied(err):
		return ExitPermissionDenied
	}
	return 1
}
