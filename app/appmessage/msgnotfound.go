// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MsgNotFound defines a cygnus notfound message which is sent in response to
// a getdata message if any of the requested data in not available on the
// peer. Each message is limited to a maximum number of inventory vectors,
// which is currently 50,000.
type MsgNotFound struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgNotFound) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [max %d]",
			MaxInvPerMsg)
	}

	msg.InvList = append(msg.InvList, iv)
	return nil
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgNotFound) CygnusDecode(r io.Reader, pver uint32) error {
	invList, err := readInvList(r, pver)
	if err != nil {
		return err
	}
	msg.InvList = invList
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgNotFound) CygnusEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, pver, msg.InvList)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgNotFound) Command() MessageCommand {
	return CmdNotFound
}

// NewMsgNotFound returns a new cygnus notfound message that conforms to the
// Message interface.
func NewMsgNotFound() *MsgNotFound {
	return &MsgNotFound{
		InvList: make([]*InvVect, 0, defaultInvListAlloc),
	}
}
