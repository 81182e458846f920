// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MsgGetHeaders implements the Message interface and represents a cygnus
// getheaders message. It is used to request a list of block headers for
// blocks starting after the last known hash in the slice of block locator
// hashes. The list is returned via a headers message and is limited by a
// specific hash to stop at or the maximum number of block headers per
// message.
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*Hash
	HashStop           Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetHeaders) AddBlockLocatorHash(hash *Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return errors.Errorf("too many block locator hashes for message [max %d]",
			MaxBlockLocatorsPerMsg)
	}

	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetHeaders) CygnusDecode(r io.Reader, pver uint32) error {
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
func (msg *MsgGetHeaders) CygnusEncode(w io.Writer, pver uint32) error {
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
func (msg *MsgGetHeaders) Command() MessageCommand {
	return CmdGetHeaders
}

// NewMsgGetHeaders returns a new cygnus getheaders message that conforms to
// the Message interface.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{
		BlockLocatorHashes: make([]*Hash, 0, MaxBlockLocatorsPerMsg),
	}
}
