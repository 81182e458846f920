// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MsgInv implements the Message interface and represents a cygnus inv
// message. It is used to advertise a peer's known data such as blocks and
// transactions through inventory vectors. It may be sent unsolicited to
// inform other peers of the data or in response to a getblocks message
// (MsgGetBlocks). Each message is limited to a maximum number of inventory
// vectors, which is currently 50,000.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [max %d]",
			MaxInvPerMsg)
	}

	msg.InvList = append(msg.InvList, iv)
	return nil
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgInv) CygnusDecode(r io.Reader, pver uint32) error {
	invList, err := readInvList(r, pver)
	if err != nil {
		return err
	}
	msg.InvList = invList
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgInv) CygnusEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, pver, msg.InvList)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgInv) Command() MessageCommand {
	return CmdInv
}

// NewMsgInv returns a new cygnus inv message that conforms to the Message
// interface.
func NewMsgInv() *MsgInv {
	return &MsgInv{
		InvList: make([]*InvVect, 0, defaultInvListAlloc),
	}
}

// NewMsgInvSizeHint returns a new cygnus inv message that conforms to the
// Message interface. See MsgInv for details. This function differs from
// NewMsgInv in that it allows a default allocation size for the backing
// array which houses the inventory vector list. This allows callers who
// know in advance how large the inventory list will grow to avoid the
// overhead of growing the internal backing array several times when
// appending large amounts of inventory vectors with AddInvVect.
func NewMsgInvSizeHint(sizeHint uint) *MsgInv {
	// Limit the specified hint to the maximum allow per message.
	if sizeHint > MaxInvPerMsg {
		sizeHint = MaxInvPerMsg
	}

	return &MsgInv{
		InvList: make([]*InvVect, 0, sizeHint),
	}
}

// defaultInvListAlloc is the default size used for the backing array for an
// inventory list. The array will dynamically grow as needed, but this
// figure is intended to provide enough space for the max number of inventory
// vectors in a *typical* inventory message without needing to grow the
// backing array multiple times.
const defaultInvListAlloc = 1000

// readInvList reads a varInt-counted list of inventory vectors from r.
func readInvList(r io.Reader, pver uint32) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	// Limit to max inventory vectors per message.
	if count > MaxInvPerMsg {
		return nil, errors.Errorf("too many invvect in message - count %d, max %d",
			count, MaxInvPerMsg)
	}

	// Create a contiguous slice of inventory vectors to deserialize into
	// in order to reduce the number of allocations.
	invList := make([]InvVect, count)
	list := make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv := &invList[i]
		err := readInvVect(r, pver, iv)
		if err != nil {
			return nil, err
		}
		list = append(list, iv)
	}
	return list, nil
}

// writeInvList writes a varInt-counted list of inventory vectors to w.
func writeInvList(w io.Writer, pver uint32, invList []*InvVect) error {
	count := len(invList)
	if count > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message - count %d, max %d",
			count, MaxInvPerMsg)
	}

	err := WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}

	for _, iv := range invList {
		err := writeInvVect(w, pver, iv)
		if err != nil {
			return err
		}
	}
	return nil
}
