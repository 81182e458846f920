// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MaxAddressesPerMsg is the maximum number of addresses that can be in a
// single cygnus addr message (MsgAddresses).
const MaxAddressesPerMsg = 1000

// MsgAddresses implements the Message interface and represents a cygnus addr
// message. It is used to provide a list of known active peers on the
// network. Each message is limited to a maximum number of addresses, which
// is currently 1000. This is not a hard limit of the protocol, but a sanity
// check.
type MsgAddresses struct {
	AddrList []*NetAddress
}

// AddAddress adds a known active peer to the message.
func (msg *MsgAddresses) AddAddress(na *NetAddress) error {
	if len(msg.AddrList)+1 > MaxAddressesPerMsg {
		return errors.Errorf("too many addresses in message [max %d]",
			MaxAddressesPerMsg)
	}

	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// AddAddresses adds multiple known active peers to the message.
func (msg *MsgAddresses) AddAddresses(netAddrs ...*NetAddress) error {
	for _, na := range netAddrs {
		err := msg.AddAddress(na)
		if err != nil {
			return err
		}
	}
	return nil
}

// ClearAddresses removes all addresses from the message.
func (msg *MsgAddresses) ClearAddresses() {
	msg.AddrList = []*NetAddress{}
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgAddresses) CygnusDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Limit to max addresses per message.
	if count > MaxAddressesPerMsg {
		return errors.Errorf("too many addresses for message - count %d, max %d",
			count, MaxAddressesPerMsg)
	}

	addrList := make([]NetAddress, count)
	msg.AddrList = make([]*NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		na := &addrList[i]
		err := readNetAddress(r, pver, na, true)
		if err != nil {
			return err
		}
		msg.AddrList = append(msg.AddrList, na)
	}
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgAddresses) CygnusEncode(w io.Writer, pver uint32) error {
	count := len(msg.AddrList)
	if count > MaxAddressesPerMsg {
		return errors.Errorf("too many addresses for message - count %d, max %d",
			count, MaxAddressesPerMsg)
	}

	err := WriteVarInt(w, uint64(count))
	if err != nil {
		return err
	}

	for _, na := range msg.AddrList {
		err = writeNetAddress(w, pver, na, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgAddresses) Command() MessageCommand {
	return CmdAddresses
}

// NewMsgAddresses returns a new cygnus addr message that conforms to the
// Message interface.
func NewMsgAddresses() *MsgAddresses {
	return &MsgAddresses{
		AddrList: make([]*NetAddress, 0, MaxAddressesPerMsg),
	}
}
