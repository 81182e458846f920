// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"fmt"
	"strconv"
	"strings"
)

// ProtocolVersion is the latest protocol version this package supports.
const ProtocolVersion uint32 = 70001

// ServiceFlag identifies services supported by a cygnus peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork is a flag used to indicate a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeBloom is a flag used to indicate a peer supports bloom
	// filtering.
	SFNodeBloom
)

// Map of service flags back to their constant names for pretty printing.
var sfStrings = map[ServiceFlag]string{
	SFNodeNetwork: "SFNodeNetwork",
	SFNodeBloom:   "SFNodeBloom",
}

// orderedSFStrings is an ordered list of service flags from highest to
// lowest.
var orderedSFStrings = []ServiceFlag{
	SFNodeNetwork,
	SFNodeBloom,
}

// String returns the ServiceFlag in human-readable form.
func (f ServiceFlag) String() string {
	// No flags are set.
	if f == 0 {
		return "0x0"
	}

	// Add individual bit flags.
	s := ""
	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			s += sfStrings[flag] + "|"
			f -= flag
		}
	}

	// Add any remaining flags which aren't accounted for as hex.
	s = strings.TrimRight(s, "|")
	if f != 0 {
		s += "|0x" + strconv.FormatUint(uint64(f), 16)
	}
	s = strings.TrimLeft(s, "|")
	return s
}

// CygnusNet represents which cygnus network a message belongs to. The four
// byte magic at the start of every message header is the little-endian
// serialization of this value.
type CygnusNet uint32

// Constants used to indicate the message cygnus network. They can also be
// used to seek to the next message when a stream's state is unknown, but
// this package does not provide that functionality since it's generally a
// better idea to simply disconnect clients that are misbehaving over TCP.
const (
	// Mainnet represents the main cygnus network.
	Mainnet CygnusNet = 0xd9b4bec9

	// Testnet represents the test network.
	Testnet CygnusNet = 0x0709110b

	// Simnet represents the simulation test network.
	Simnet CygnusNet = 0x12141c16

	// Devnet represents the development network.
	Devnet CygnusNet = 0xd9c4c3b2
)

// cnStrings is a map of cygnus networks back to their constant names for
// pretty printing.
var cnStrings = map[CygnusNet]string{
	Mainnet: "Mainnet",
	Testnet: "Testnet",
	Simnet:  "Simnet",
	Devnet:  "Devnet",
}

// String returns the CygnusNet in human-readable form.
func (n CygnusNet) String() string {
	if s, ok := cnStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown CygnusNet (%d)", uint32(n))
}
