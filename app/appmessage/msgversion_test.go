// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"bytes"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// baseVersion returns a version message with fixed field values so wire tests
// stay deterministic.
func baseVersion() *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: 70001,
		Services:        SFNodeNetwork,
		Timestamp:       time.Unix(0x495fab29, 0),
		AddrYou: NetAddress{
			Services: SFNodeNetwork,
			IP:       net.ParseIP("192.168.0.1"),
			Port:     16111,
		},
		AddrMe: NetAddress{
			Services: SFNodeNetwork,
			IP:       net.ParseIP("127.0.0.1"),
			Port:     16111,
		},
		Nonce:       123123,
		UserAgent:   "/cygnusdtest:0.0.1/",
		StartHeight: 234234,
	}
}

// TestVersion tests the MsgVersion API.
func TestVersion(t *testing.T) {
	me := NewNetAddressIPPort(net.ParseIP("127.0.0.1"), 16111, SFNodeNetwork)
	you := NewNetAddressIPPort(net.ParseIP("192.168.0.1"), 16111, SFNodeNetwork)
	nonce := uint64(123123)
	lastBlock := int32(234234)
	msg := NewMsgVersion(me, you, nonce, lastBlock)

	if msg.ProtocolVersion != int32(ProtocolVersion) {
		t.Errorf("NewMsgVersion: wrong protocol version - got %v, want %v",
			msg.ProtocolVersion, ProtocolVersion)
	}
	if !reflect.DeepEqual(&msg.AddrMe, me) {
		t.Errorf("NewMsgVersion: wrong me address - got %v, want %v",
			spew.Sdump(&msg.AddrMe), spew.Sdump(me))
	}
	if !reflect.DeepEqual(&msg.AddrYou, you) {
		t.Errorf("NewMsgVersion: wrong you address - got %v, want %v",
			spew.Sdump(&msg.AddrYou), spew.Sdump(you))
	}
	if msg.Nonce != nonce {
		t.Errorf("NewMsgVersion: wrong nonce - got %v, want %v",
			msg.Nonce, nonce)
	}
	if msg.UserAgent != DefaultUserAgent {
		t.Errorf("NewMsgVersion: wrong user agent - got %v, want %v",
			msg.UserAgent, DefaultUserAgent)
	}
	if msg.StartHeight != lastBlock {
		t.Errorf("NewMsgVersion: wrong last block - got %v, want %v",
			msg.StartHeight, lastBlock)
	}
	if msg.DisableRelayTx {
		t.Errorf("NewMsgVersion: disable relay tx is not false by default - got %v",
			msg.DisableRelayTx)
	}

	if cmd := msg.Command(); cmd != CmdVersion {
		t.Errorf("NewMsgVersion: wrong command - got %v want %v",
			cmd, CmdVersion)
	}

	// Version message should not have any services set by default.
	if msg.Services != 0 {
		t.Errorf("NewMsgVersion: wrong default services - got %v, want 0",
			msg.Services)
	}
	if msg.HasService(SFNodeNetwork) {
		t.Error("HasService: SFNodeNetwork service is set")
	}
	msg.AddService(SFNodeNetwork)
	if msg.Services != SFNodeNetwork {
		t.Errorf("AddService: wrong services - got %v, want %v",
			msg.Services, SFNodeNetwork)
	}
	if !msg.HasService(SFNodeNetwork) {
		t.Error("HasService: SFNodeNetwork service not set")
	}
}

// TestVersionWire tests encode and decode round trips for version messages
// with both settings of the transaction relay flag.
func TestVersionWire(t *testing.T) {
	verRelayTxFalse := baseVersion()
	verRelayTxFalse.DisableRelayTx = true

	tests := []struct {
		in  *MsgVersion
		out *MsgVersion
	}{
		{baseVersion(), baseVersion()},
		{verRelayTxFalse, verRelayTxFalse},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		var buf bytes.Buffer
		err := test.in.CygnusEncode(&buf, ProtocolVersion)
		if err != nil {
			t.Errorf("CygnusEncode #%d error %v", i, err)
			continue
		}

		var msg MsgVersion
		err = msg.CygnusDecode(bytes.NewReader(buf.Bytes()), ProtocolVersion)
		if err != nil {
			t.Errorf("CygnusDecode #%d error %v", i, err)
			continue
		}
		if !reflect.DeepEqual(&msg, test.out) {
			t.Errorf("CygnusDecode #%d\n got: %s want: %s", i,
				spew.Sdump(msg), spew.Sdump(test.out))
			continue
		}
	}
}

// TestVersionOptionalFields ensures a version message whose serialization
// stops right before the relay flag still decodes, with relay treated as
// enabled.
func TestVersionOptionalFields(t *testing.T) {
	withFlag := baseVersion()
	var buf bytes.Buffer
	err := withFlag.CygnusEncode(&buf, ProtocolVersion)
	if err != nil {
		t.Fatalf("CygnusEncode: %v", err)
	}

	// Drop the trailing relay flag byte.
	truncated := buf.Bytes()[:buf.Len()-1]

	var msg MsgVersion
	err = msg.CygnusDecode(bytes.NewReader(truncated), ProtocolVersion)
	if err != nil {
		t.Fatalf("CygnusDecode without relay flag: %v", err)
	}
	if msg.DisableRelayTx {
		t.Error("CygnusDecode: missing relay flag should mean relay enabled")
	}
	if !reflect.DeepEqual(&msg, baseVersion()) {
		t.Errorf("CygnusDecode\n got: %s want: %s",
			spew.Sdump(msg), spew.Sdump(baseVersion()))
	}
}

// TestVersionUserAgentLength ensures user agents above MaxUserAgentLen are
// rejected by both encode and decode.
func TestVersionUserAgentLength(t *testing.T) {
	msg := baseVersion()
	msg.UserAgent = "/" + strings.Repeat("longagent", 50) + ":0.0.1/"

	var buf bytes.Buffer
	err := msg.CygnusEncode(&buf, ProtocolVersion)
	if err == nil {
		t.Fatal("CygnusEncode: expected error for oversized user agent")
	}

	almostFull := baseVersion()
	almostFull.UserAgent = "/" + strings.Repeat("x", MaxUserAgentLen-10) + "/"
	err = almostFull.AddUserAgent("other", "0.0.1")
	if err == nil {
		t.Fatal("AddUserAgent: expected error when growing past the maximum")
	}
}
