// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

const (
	// MaxFilterLoadHashFuncs is the maximum number of hash functions to
	// load into the bloom filter.
	MaxFilterLoadHashFuncs = 50

	// MaxFilterLoadFilterSize is the maximum size in bytes a filter may
	// be.
	MaxFilterLoadFilterSize = 36000
)

// BloomUpdateType specifies how the filter is updated when a match is found.
type BloomUpdateType uint8

const (
	// BloomUpdateNone indicates the filter is not adjusted when a match
	// is found.
	BloomUpdateNone BloomUpdateType = 0

	// BloomUpdateAll indicates if the filter matches any data element in
	// a public key script, the outpoint is serialized and inserted into
	// the filter.
	BloomUpdateAll BloomUpdateType = 1

	// BloomUpdateP2PubkeyOnly indicates if the filter matches a data
	// element in a public key script and the script is of the standard
	// pay-to-pubkey or multisig, the outpoint is serialized and inserted
	// into the filter.
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// MsgFilterLoad implements the Message interface and represents a cygnus
// filterload message which is used to reset a bloom filter.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgFilterLoad) CygnusDecode(r io.Reader, pver uint32) error {
	filter, err := ReadVarBytes(r, MaxFilterLoadFilterSize, "filterload filter size")
	if err != nil {
		return err
	}
	msg.Filter = filter

	err = ReadElements(r, &msg.HashFuncs, &msg.Tweak, (*uint8)(&msg.Flags))
	if err != nil {
		return err
	}

	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		return errors.Errorf("too many filter hash functions for message - count %d, max %d",
			msg.HashFuncs, MaxFilterLoadHashFuncs)
	}
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgFilterLoad) CygnusEncode(w io.Writer, pver uint32) error {
	size := len(msg.Filter)
	if size > MaxFilterLoadFilterSize {
		return errors.Errorf("filterload filter size too large for message - size %d, max %d",
			size, MaxFilterLoadFilterSize)
	}

	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		return errors.Errorf("too many filter hash functions for message - count %d, max %d",
			msg.HashFuncs, MaxFilterLoadHashFuncs)
	}

	err := WriteVarBytes(w, msg.Filter)
	if err != nil {
		return err
	}

	return WriteElements(w, msg.HashFuncs, msg.Tweak, uint8(msg.Flags))
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgFilterLoad) Command() MessageCommand {
	return CmdFilterLoad
}

// NewMsgFilterLoad returns a new cygnus filterload message that conforms to
// the Message interface.
func NewMsgFilterLoad(filter []byte, hashFuncs uint32, tweak uint32, flags BloomUpdateType) *MsgFilterLoad {
	return &MsgFilterLoad{
		Filter:    filter,
		HashFuncs: hashFuncs,
		Tweak:     tweak,
		Flags:     flags,
	}
}
