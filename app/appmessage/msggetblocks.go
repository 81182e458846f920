// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed per message.
const MaxBlockLocatorsPerMsg = 500

// MsgGetBlocks implements the Message interface and represents a cygnus
// getblocks message. It is used to request a list of blocks starting after
// the last known hash in the slice of block locator hashes. The list is
// returned via an inv message (MsgInv) and is limited by a specific hash to
// stop at or the maximum number of blocks per message.
//
// The algorithm for building the block locator hashes should be to add the
// hashes in reverse order until you reach the genesis block. In order to
// keep the list of locator hashes to a reasonable number of entries, first
// add the most recent 10 block hashes, then double the step each loop
// iteration to exponentially decrease the number of hashes the further away
// from head and closer to the genesis block you get.
type MsgGetBlocks struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*Hash
	HashStop           Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetBlocks) AddBlockLocatorHash(hash *Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [max %d]",
			MaxBlockLocatorsPerMsg)
	}

	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetBlocks) CygnusDecode(r io.Reader, pver uint32) error {
	err := ReadElement(r, &msg.ProtocolVersion)
	if err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message - count %d, max %d",
			count, MaxBlockLocatorsPerMsg)
	}

	locatorHashes := make([]Hash, count)
	msg.BlockLocatorHashes = make([]*Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		hash := &locatorHashes[i]
		err := ReadElement(r, hash)
		if err != nil {
			return err
		}
		msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	}

	return ReadElement(r, &msg.HashStop)
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetBlocks) CygnusEncode(w io.Writer, pver uint32) error {
	count := len(msg.BlockLocatorHashes)
	if count > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message - count %d, max %d",
			count, MaxBlockLocatorsPerMsg)
	}

	err := WriteElement(w, msg.ProtocolVersion)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}

	for _, hash := range msg.BlockLocatorHashes {
		err = WriteElement(w, *hash)
		if err != nil {
			return err
		}
	}

	return WriteElement(w, msg.HashStop)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgGetBlocks) Command() MessageCommand {
	return CmdGetBlocks
}

// NewMsgGetBlocks returns a new cygnus getblocks message that conforms to
// the Message interface using the passed parameters and defaults for the
// remaining fields.
func NewMsgGetBlocks(hashStop Hash) *MsgGetBlocks {
	return &MsgGetBlocks{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]*Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           hashStop,
	}
}
