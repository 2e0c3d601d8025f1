package cmd

import (
	"fmt"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const FlagExtended = "extended"

var cmdGen = &cobra.Command{
	Use:   "gen",
	Short: "Generates a secp256k1 private key in WIF",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 0 {
			return errors.New("Incorrect argument count")
		}

		extended, _ := c.Flags().GetBool(FlagExtended)
		if extended {
			xkey, err := keys.GenerateExtendedKey()
			if err != nil {
				return errors.Wrap(err, "generate extended key")
			}

			key, err := xkey.Key()
			if err != nil {
				return errors.Wrap(err, "extended key")
			}

			fmt.Printf("XKey : %s\n", xkey.String())
			printKey(key)
			return nil
		}

		key, err := keys.GenerateKey()
		if err != nil {
			return errors.Wrap(err, "generate key")
		}

		printKey(key)
		return nil
	},
}

func printKey(key *keys.Key) {
	fmt.Printf("WIF : %s\n", key.String())
	fmt.Printf("PubKey : %s\n", key.PublicKey().String())
	fmt.Printf("Addr : %s\n", key.Address().String())
}

func init() {
	cmdGen.Flags().Bool(FlagExtended, false, "Generate an extended (BIP32) key")
}
