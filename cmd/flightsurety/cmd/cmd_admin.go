package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var cmdAuthorize = &cobra.Command{
	Use:   "authorize address",
	Short: "Adds an authorized caller to the ledger",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		return withSession(func(s *session) error {
			address, err := decodeAddress(args[0])
			if err != nil {
				return err
			}

			if err := s.ledger.AuthorizeCaller(s.ctx, s.key.Address(), address); err != nil {
				return errors.Wrap(err, "authorize caller")
			}

			fmt.Printf("Authorized %s\n", address)
			return nil
		})
	},
}

var cmdDeauthorize = &cobra.Command{
	Use:   "deauthorize address",
	Short: "Removes an authorized caller from the ledger",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		return withSession(func(s *session) error {
			address, err := decodeAddress(args[0])
			if err != nil {
				return err
			}

			if err := s.ledger.DeauthorizeCaller(s.ctx, s.key.Address(), address); err != nil {
				return errors.Wrap(err, "deauthorize caller")
			}

			fmt.Printf("Deauthorized %s\n", address)
			return nil
		})
	},
}

var cmdOperating = &cobra.Command{
	Use:   "operating [true|false]",
	Short: "Shows or sets the operational flag",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("Incorrect argument count")
		}

		return withSession(func(s *session) error {
			if len(args) == 1 {
				operational, err := strconv.ParseBool(args[0])
				if err != nil {
					return errors.Wrapf(err, "parse flag %s", args[0])
				}

				if err := s.ledger.SetOperatingStatus(s.ctx, s.key.Address(), operational); err != nil {
					return errors.Wrap(err, "set operating status")
				}
			}

			fmt.Printf("Operational : %t\n", s.ledger.IsOperational())
			return nil
		})
	},
}

var cmdRegister = &cobra.Command{
	Use:   "register address name",
	Short: "Registers an airline directly as the ledger owner",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		return withSession(func(s *session) error {
			address, err := decodeAddress(args[0])
			if err != nil {
				return err
			}

			airline, err := s.ledger.RegisterAirline(s.ctx, s.key.Address(), address, args[1])
			if err != nil {
				return errors.Wrap(err, "register airline")
			}

			return dumpJSON(airline)
		})
	},
}

var cmdFund = &cobra.Command{
	Use:   "fund address amount",
	Short: "Credits funds to a registered airline as the ledger owner",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return errors.Wrapf(err, "parse amount %s", args[1])
		}

		return withSession(func(s *session) error {
			address, err := decodeAddress(args[0])
			if err != nil {
				return err
			}

			if err := s.ledger.FundAirline(s.ctx, s.key.Address(), address, amount); err != nil {
				return errors.Wrap(err, "fund airline")
			}

			fmt.Printf("Balance : %s\n", s.ledger.GetAirlineBalance(address))
			fmt.Printf("Participant : %t\n", s.ledger.IsAirlineParticipant(address))
			return nil
		})
	},
}

var cmdBalance = &cobra.Command{
	Use:   "balance address",
	Short: "Shows the balance of an airline",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Incorrect argument count")
		}

		return withSession(func(s *session) error {
			address, err := decodeAddress(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", s.ledger.GetAirlineBalance(address))
			return nil
		})
	},
}
