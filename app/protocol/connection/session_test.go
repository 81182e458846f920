package connection

import (
	"net"
	"sync"
	"testing"

	"github.com/cygnusnet/cygnusd/app/appmessage"
)

func (ts *testSession) serialize(t *testing.T, msg appmessage.Message) []byte {
	t.Helper()
	data, err := appmessage.SerializeMessage(
		msg, ts.session.cfg.ProtocolVersion, ts.session.cfg.Network)
	if err != nil {
		t.Fatalf("SerializeMessage: %v", err)
	}
	return data
}

// TestSessionEndToEnd runs a full session on its own goroutine: handshake,
// a ping answered with a pong, and a clean close.
func TestSessionEndToEnd(t *testing.T) {
	ts := newTestSession(t, "10.9.9.9")
	if err := ts.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The version goes out unprompted.
	waitForCondition(t, "the local version", func() bool {
		commands := ts.transport.sentCommands()
		return len(commands) == 1 && commands[0] == appmessage.CmdVersion
	})

	if err := ts.session.HandleBytes(ts.serialize(t, ts.remoteVersion(4242))); err != nil {
		t.Fatalf("HandleBytes(version): %v", err)
	}
	waitForCondition(t, "the verack reply", func() bool {
		commands := ts.transport.sentCommands()
		return len(commands) == 2 && commands[1] == appmessage.CmdVerAck
	})

	if err := ts.session.HandleBytes(ts.serialize(t, appmessage.NewMsgVerAck())); err != nil {
		t.Fatalf("HandleBytes(verack): %v", err)
	}
	waitForCondition(t, "the handshake sink notification", func() bool {
		return len(ts.listener.completedPeers()) == 1
	})

	// A ping is answered with a pong through the dispatcher.
	if err := ts.session.HandleBytes(ts.serialize(t, appmessage.NewMsgPing(99))); err != nil {
		t.Fatalf("HandleBytes(ping): %v", err)
	}
	waitForCondition(t, "the pong reply", func() bool {
		commands := ts.transport.sentCommands()
		return len(commands) == 3 && commands[2] == appmessage.CmdPong
	})

	if err := ts.session.NotifyConnectionClosed(); err != nil {
		t.Fatalf("NotifyConnectionClosed: %v", err)
	}
	waitForCondition(t, "session teardown", func() bool {
		return ts.transport.isAborted() && ts.registry.Count() == 0
	})

	// Posts to a torn-down session fail instead of blocking.
	waitForCondition(t, "the mailbox to reject posts", func() bool {
		return ts.session.HandleBytes([]byte{0}) != nil
	})
}

type panickingDecoder struct{}

func (panickingDecoder) DecodePayload(*Session, appmessage.MessageCommand, []byte) error {
	panic("decoder exploded")
}

// TestSessionPanicIsolation checks that a panic while handling an event
// tears down only that session.
func TestSessionPanicIsolation(t *testing.T) {
	ts := newTestSession(t, "10.9.9.9")
	ts.session.decoder = panickingDecoder{}
	if err := ts.session.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := ts.session.HandleBytes(ts.serialize(t, appmessage.NewMsgPing(1))); err != nil {
		t.Fatalf("HandleBytes: %v", err)
	}
	waitForCondition(t, "teardown after panic", func() bool {
		return ts.transport.isAborted() && ts.registry.Count() == 0
	})
}

type recordingAddressListener struct {
	mutex     sync.Mutex
	addresses []*appmessage.NetAddress
}

func (ral *recordingAddressListener) OnAddresses(addresses []*appmessage.NetAddress) {
	ral.mutex.Lock()
	defer ral.mutex.Unlock()
	ral.addresses = append(ral.addresses, addresses...)
}

func TestDefaultDecoderFeedsAddressListener(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	listener := &recordingAddressListener{}
	ts.session.decoder = NewDefaultDecoder(listener)
	ts.startSync(t)
	ts.establish(t, 777)

	addresses := appmessage.NewMsgAddresses()
	err := addresses.AddAddress(appmessage.NewNetAddressIPPort(
		net.ParseIP("192.0.2.33"), 16511, appmessage.SFNodeNetwork))
	if err != nil {
		t.Fatalf("AddAddress: %v", err)
	}
	if err := ts.deliver(t, addresses); err != nil {
		t.Fatalf("delivering addr: %v", err)
	}

	listener.mutex.Lock()
	defer listener.mutex.Unlock()
	if len(listener.addresses) != 1 {
		t.Fatalf("address listener received %d addresses, want 1", len(listener.addresses))
	}
	if !listener.addresses[0].IP.Equal(net.ParseIP("192.0.2.33")) {
		t.Errorf("address listener received %s", listener.addresses[0].IP)
	}
}

func TestUnhandledCommandsAreIgnored(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	inv := appmessage.NewMsgInvSizeHint(1)
	if err := inv.AddInvVect(txInv(1)); err != nil {
		t.Fatalf("AddInvVect: %v", err)
	}
	if err := ts.deliver(t, inv); err != nil {
		t.Fatalf("an inbound inv must not be fatal: %v", err)
	}
	if err := ts.deliver(t, appmessage.NewMsgMemPool()); err != nil {
		t.Fatalf("an inbound mempool must not be fatal: %v", err)
	}
}
