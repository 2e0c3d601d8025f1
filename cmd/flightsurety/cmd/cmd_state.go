package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

const FlagDump = "dump"

var cmdState = &cobra.Command{
	Use:   "state",
	Short: "Shows the ledger and its airlines",
	RunE: func(c *cobra.Command, args []string) error {
		dump, _ := c.Flags().GetBool(FlagDump)

		return withSession(func(s *session) error {
			doc := s.ledger.Snapshot()
			airlines := s.ledger.ListAirlines()

			if dump {
				spew.Dump(doc)
				spew.Dump(airlines)
				return nil
			}

			fmt.Printf("# Ledger\n\n")
			if err := dumpJSON(doc); err != nil {
				return err
			}

			if !s.app.Address().IsEmpty() {
				fmt.Printf("# App %s (authorized %t)\n\n", s.app.Address(),
					s.ledger.IsAuthorized(s.app.Address()))
			}

			fmt.Printf("# Airlines\n\n")
			return dumpJSON(airlines)
		})
	},
}

func init() {
	cmdState.Flags().Bool(FlagDump, false, "Dump Go values instead of JSON")
}
