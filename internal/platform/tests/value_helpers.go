package tests

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/flightsurety/smart-contract/pkg/keys"
)

var testHelperRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomAddress returns an address that no key is expected to own.
func RandomAddress() keys.Address {
	var result keys.Address
	for i := range result {
		result[i] = byte(testHelperRand.Intn(256))
	}
	return result
}

// RandomName returns an airline name that fits the name field.
func RandomName() string {
	return fmt.Sprintf("Airline %08d", testHelperRand.Intn(100000000))
}
