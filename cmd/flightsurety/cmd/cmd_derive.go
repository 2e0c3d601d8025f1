package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdDerive = &cobra.Command{
	Use:   "derive xkey path",
	Short: "Derives hardened child keys for an extended key. The path is like 0/1/5",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		xkey, err := keys.ExtendedKeyFromStr(args[0])
		if err != nil {
			return errors.Wrap(err, "parse extended key")
		}

		path, err := parsePath(args[1])
		if err != nil {
			return err
		}

		child := xkey
		for _, index := range path {
			child, err = child.Child(index)
			if err != nil {
				return errors.Wrapf(err, "derive child %d", index)
			}
		}

		key, err := child.Key()
		if err != nil {
			return errors.Wrap(err, "child key")
		}

		fmt.Printf("XKey : %s\n", child.String())
		printKey(key)
		return nil
	},
}

// parsePath parses a slash separated list of child indexes. A leading "m" is allowed.
func parsePath(s string) ([]uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "m"), "/")
	if len(s) == 0 {
		return nil, nil
	}

	var result []uint32
	for _, part := range strings.Split(s, "/") {
		part = strings.TrimSuffix(part, "'")
		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, errors.Wrapf(err, "path index %q", part)
		}
		result = append(result, uint32(index))
	}

	return result, nil
}
