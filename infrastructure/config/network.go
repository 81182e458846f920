package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Use the test network"`
	Simnet  bool `long:"simnet" description:"Use the simulation test network"`
	Devnet  bool `long:"devnet" description:"Use the development test network"`

	ActiveNetParams *Params
}

// ResolveNetwork parses the network command line arguments and sets
// ActiveNetParams accordingly. It returns an error if more than one network
// was selected.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// The default network is mainnet. Multiple networks can't be selected
	// simultaneously.
	networkFlags.ActiveNetParams = &MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		networkFlags.ActiveNetParams = &DevnetParams
	}
	if numNets > 1 {
		message := "Multiple network parameters (testnet, simnet, devnet) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *Params {
	return networkFlags.ActiveNetParams
}
