package main

import (
	"os"

	"github.com/flightsurety/smart-contract/cmd/flightsurety/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
