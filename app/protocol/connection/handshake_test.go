package connection

import (
	"testing"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	peerpkg "github.com/cygnusnet/cygnusd/app/protocol/peer"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
	"github.com/pkg/errors"
)

func TestHandshakeHappyPath(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)

	// The local version goes out unprompted, before any byte arrives.
	commands := ts.transport.sentCommands()
	if len(commands) != 1 || commands[0] != appmessage.CmdVersion {
		t.Fatalf("after start: sent %v, want [version]", commands)
	}
	if ts.session.state != handshakeVersionSent {
		t.Fatalf("state: got %s, want %s", ts.session.state, handshakeVersionSent)
	}
	if ts.registry.Count() != 0 {
		t.Fatalf("peer registered before its version arrived")
	}

	// The peer's version is answered with exactly one verack, and only
	// now, with its nonce known, does the peer join the registry.
	err := ts.deliver(t, ts.remoteVersion(777))
	if err != nil {
		t.Fatalf("delivering version: %v", err)
	}
	if ts.registry.Count() != 1 {
		t.Fatalf("registry holds %d peers after version, want 1", ts.registry.Count())
	}
	commands = ts.transport.sentCommands()
	if len(commands) != 2 || commands[1] != appmessage.CmdVerAck {
		t.Fatalf("after version: sent %v, want [version verack]", commands)
	}
	if ts.session.state != handshakeVersionReceived {
		t.Fatalf("state: got %s, want %s", ts.session.state, handshakeVersionReceived)
	}
	if got := ts.session.peer.Nonce(); got != 777 {
		t.Errorf("recorded peer nonce: got %d, want 777", got)
	}
	if got := ts.session.peer.UserAgent(); got != "/remote-test:0.1.0/" {
		t.Errorf("recorded peer user agent: got %q", got)
	}

	// The peer's verack establishes the session and notifies the
	// handshake sink exactly once.
	err = ts.deliver(t, appmessage.NewMsgVerAck())
	if err != nil {
		t.Fatalf("delivering verack: %v", err)
	}
	if ts.session.state != handshakeEstablished {
		t.Fatalf("state: got %s, want %s", ts.session.state, handshakeEstablished)
	}
	completed := ts.listener.completedPeers()
	if len(completed) != 1 || completed[0] != ts.session.peer {
		t.Fatalf("handshake sink notified %d times, want exactly once", len(completed))
	}
	if !ts.session.peer.HandshakeComplete() {
		t.Errorf("peer not marked handshake complete")
	}
}

func TestHandshakeSelfConnection(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)

	err := ts.deliver(t, ts.remoteVersion(ts.session.localNonce))
	if err == nil {
		t.Fatalf("expected an error for a self connection")
	}
	var protocolError *protocolerrors.ProtocolError
	if !errors.As(err, &protocolError) {
		t.Fatalf("expected a protocol error, got %v", err)
	}
	if protocolError.ShouldBan {
		t.Errorf("a self connection must not ban")
	}

	// No verack goes out and teardown leaves nothing registered.
	if commands := ts.transport.sentCommands(); len(commands) != 1 {
		t.Errorf("sent %v after self connection, want only the version", commands)
	}
	ts.session.abort(err)
	if !ts.transport.isAborted() {
		t.Errorf("transport not aborted")
	}
	if ts.registry.Count() != 0 {
		t.Errorf("registry still holds %d peers", ts.registry.Count())
	}
}

func TestHandshakeDuplicateConnection(t *testing.T) {
	first := newTestSession(t, "10.1.1.1")
	first.startSync(t)
	if err := first.deliver(t, first.remoteVersion(777)); err != nil {
		t.Fatalf("establishing first session: %v", err)
	}

	// A second connection from the same address carrying the same nonce
	// is rejected.
	second := newTestSession(t, "10.1.1.1")
	second.registry = first.registry
	second.session.registry = first.registry
	second.startSync(t)

	err := second.deliver(t, second.remoteVersion(777))
	if err == nil {
		t.Fatalf("expected an error for a duplicate connection")
	}
	if !errors.Is(err, peerpkg.ErrPeerWithSameNonceExists) {
		t.Fatalf("duplicate connection error: got %v", err)
	}
	var protocolError *protocolerrors.ProtocolError
	if !errors.As(err, &protocolError) || protocolError.ShouldBan {
		t.Errorf("a duplicate connection must not ban, got %v", err)
	}
	if first.registry.Count() != 1 {
		t.Errorf("rejected duplicate must not stay registered, registry holds %d",
			first.registry.Count())
	}

	// The same nonce from a different address is fine.
	third := newTestSession(t, "10.2.2.2")
	third.registry = first.registry
	third.session.registry = first.registry
	third.startSync(t)
	if err := third.deliver(t, third.remoteVersion(777)); err != nil {
		t.Fatalf("same nonce from a different address: %v", err)
	}
}

func TestHandshakeVerAckBeforeVersion(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)

	err := ts.deliver(t, appmessage.NewMsgVerAck())
	if err == nil {
		t.Fatalf("expected an error for verack before version")
	}
	var protocolError *protocolerrors.ProtocolError
	if !errors.As(err, &protocolError) || !protocolError.ShouldBan {
		t.Errorf("expected a banning protocol error, got %v", err)
	}
}

func TestHandshakeDuplicateVersion(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	err := ts.deliver(t, ts.remoteVersion(888))
	if err == nil {
		t.Fatalf("expected an error for a second version message")
	}
}

func TestAbortDropsQueuedMessages(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	// Hold the gate closed so messages pile up, then abort.
	ts.session.sendInFlight = true
	if err := ts.session.enqueueOutbound(appmessage.NewMsgGetAddresses()); err != nil {
		t.Fatalf("enqueueOutbound: %v", err)
	}
	ts.session.abort(errors.New("test abort"))

	if len(ts.session.highQueue) != 0 || len(ts.session.lowQueue) != 0 {
		t.Errorf("queues not dropped on abort")
	}
	if ts.session.state != handshakeAborted {
		t.Errorf("state: got %s, want %s", ts.session.state, handshakeAborted)
	}

	// Abort is terminal: a later fault must not run teardown twice or
	// clear the aborted state.
	ts.session.abort(errors.New("second abort"))
	if ts.registry.Count() != 0 {
		t.Errorf("registry still holds %d peers", ts.registry.Count())
	}
}
