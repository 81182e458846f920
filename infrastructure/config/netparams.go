package config

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
)

// Params defines a cygnus network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net appmessage.CygnusNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string
}

// MainnetParams defines the network parameters for the main cygnus network.
var MainnetParams = Params{
	Name:        "cygnus-mainnet",
	Net:         appmessage.Mainnet,
	DefaultPort: "16111",
}

// TestnetParams defines the network parameters for the test cygnus network.
var TestnetParams = Params{
	Name:        "cygnus-testnet",
	Net:         appmessage.Testnet,
	DefaultPort: "16211",
}

// SimnetParams defines the network parameters for the simulation test
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing.
var SimnetParams = Params{
	Name:        "cygnus-simnet",
	Net:         appmessage.Simnet,
	DefaultPort: "16511",
}

// DevnetParams defines the network parameters for the development cygnus
// network.
var DevnetParams = Params{
	Name:        "cygnus-devnet",
	Net:         appmessage.Devnet,
	DefaultPort: "16611",
}
