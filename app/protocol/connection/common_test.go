package connection

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	peerpkg "github.com/cygnusnet/cygnusd/app/protocol/peer"
)

type fakeTransport struct {
	mutex   sync.Mutex
	sends   [][]byte
	aborted bool
}

func (ft *fakeTransport) Send(data []byte) error {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	ft.sends = append(ft.sends, data)
	return nil
}

func (ft *fakeTransport) Abort() {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	ft.aborted = true
}

func (ft *fakeTransport) isAborted() bool {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	return ft.aborted
}

// sentCommands parses the header of every sent message and returns the
// command sequence.
func (ft *fakeTransport) sentCommands() []appmessage.MessageCommand {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()

	commands := make([]appmessage.MessageCommand, 0, len(ft.sends))
	for _, data := range ft.sends {
		commands = append(commands,
			appmessage.MessageCommandFromWire(data[4:4+appmessage.CommandSize]))
	}
	return commands
}

type fakeHeightSource struct {
	height int32
}

func (fhs *fakeHeightSource) SelectedTipHeight() int32 {
	return fhs.height
}

type fakeHandshakeListener struct {
	mutex sync.Mutex
	peers []*peerpkg.Peer
}

func (fhl *fakeHandshakeListener) OnHandshakeComplete(peer *peerpkg.Peer) {
	fhl.mutex.Lock()
	defer fhl.mutex.Unlock()
	fhl.peers = append(fhl.peers, peer)
}

func (fhl *fakeHandshakeListener) completedPeers() []*peerpkg.Peer {
	fhl.mutex.Lock()
	defer fhl.mutex.Unlock()
	return append([]*peerpkg.Peer(nil), fhl.peers...)
}

type testSession struct {
	session   *Session
	transport *fakeTransport
	registry  *peerpkg.Registry
	listener  *fakeHandshakeListener
}

func newTestSession(t *testing.T, remoteIP string) *testSession {
	t.Helper()

	cfg := &Config{
		Network:         appmessage.Simnet,
		ProtocolVersion: appmessage.ProtocolVersion,
		UserAgent:       "/cygnusd-test:0.1.0/",
	}
	transport := &fakeTransport{}
	registry := peerpkg.NewRegistry()
	listener := &fakeHandshakeListener{}
	localAddress := appmessage.NewNetAddressIPPort(
		net.ParseIP("127.0.0.1"), 16511, appmessage.SFNodeNetwork)
	remoteAddress := appmessage.NewNetAddressIPPort(
		net.ParseIP(remoteIP), 16511, appmessage.SFNodeNetwork)

	session := New(cfg, transport, registry, listener, &fakeHeightSource{height: 1234},
		nil, localAddress, remoteAddress)
	return &testSession{
		session:   session,
		transport: transport,
		registry:  registry,
		listener:  listener,
	}
}

// startSync sends the local version without spawning the mailbox goroutine,
// so tests can drive events synchronously through handleEvent.
func (ts *testSession) startSync(t *testing.T) {
	t.Helper()

	if err := ts.session.sendVersion(); err != nil {
		t.Fatalf("sendVersion: %v", err)
	}
}

// deliver frames and dispatches serialized message bytes as if they arrived
// on the connection.
func (ts *testSession) deliver(t *testing.T, msg appmessage.Message) error {
	t.Helper()

	data, err := appmessage.SerializeMessage(
		msg, ts.session.cfg.ProtocolVersion, ts.session.cfg.Network)
	if err != nil {
		t.Fatalf("SerializeMessage: %v", err)
	}
	return ts.session.handleEvent(event{kind: eventIncomingBytes, chunk: data})
}

func (ts *testSession) remoteVersion(nonce uint64) *appmessage.MsgVersion {
	msg := appmessage.NewMsgVersion(
		ts.session.peer.RemoteAddress(), ts.session.peer.LocalAddress(), nonce, 5678)
	msg.UserAgent = "/remote-test:0.1.0/"
	return msg
}

// establish drives the handshake to completion synchronously.
func (ts *testSession) establish(t *testing.T, remoteNonce uint64) {
	t.Helper()

	if err := ts.deliver(t, ts.remoteVersion(remoteNonce)); err != nil {
		t.Fatalf("delivering version: %v", err)
	}
	if err := ts.deliver(t, appmessage.NewMsgVerAck()); err != nil {
		t.Fatalf("delivering verack: %v", err)
	}
	if ts.session.state != handshakeEstablished {
		t.Fatalf("handshake state: got %s, want %s",
			ts.session.state, handshakeEstablished)
	}
}

// waitForCondition polls until check passes or the deadline expires.
func waitForCondition(t *testing.T, what string, check func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
