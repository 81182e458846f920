package netadapter

import (
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/app/protocol/connection"
	peerpkg "github.com/cygnusnet/cygnusd/app/protocol/peer"
	"github.com/cygnusnet/cygnusd/infrastructure/config"
	"github.com/cygnusnet/cygnusd/infrastructure/network/addressmanager"
	"github.com/cygnusnet/cygnusd/version"
	"github.com/pkg/errors"
)

// targetOutboundPeers is how many stored addresses the adapter dials when no
// --connect peers were given.
const targetOutboundPeers = 8

// NetAdapter is an abstraction layer over networking. It accepts and dials
// TCP connections and weaves each one into a connection.Session, leaving
// message semantics entirely to the session.
type NetAdapter struct {
	cfg            *config.Config
	registry       *peerpkg.Registry
	addressManager *addressmanager.AddressManager
	heights        connection.ChainHeightSource
	decoder        connection.PayloadDecoder

	listener   net.Listener
	listenPort uint16
	stop       uint32

	sessions     map[*connection.Session]struct{}
	sessionsLock sync.Mutex
}

// New creates a NetAdapter. addressManager may be nil, in which case the
// adapter only dials the addresses given by --connect. decoder may be nil, in
// which case every session uses the default payload decoder.
func New(cfg *config.Config, addressManager *addressmanager.AddressManager,
	heights connection.ChainHeightSource, decoder connection.PayloadDecoder) *NetAdapter {

	return &NetAdapter{
		cfg:            cfg,
		registry:       peerpkg.NewRegistry(),
		addressManager: addressManager,
		heights:        heights,
		decoder:        decoder,
		sessions:       make(map[*connection.Session]struct{}),
	}
}

// Registry returns the peer registry shared by all of this adapter's
// sessions.
func (na *NetAdapter) Registry() *peerpkg.Registry {
	return na.registry
}

// Start listens on the configured address and dials the configured peers.
// With no --connect peers it falls back on addresses the address manager
// remembers.
func (na *NetAdapter) Start() error {
	listener, err := net.Listen("tcp", na.cfg.Listen)
	if err != nil {
		return errors.Wrapf(err, "error listening on %s", na.cfg.Listen)
	}
	na.listener = listener
	na.listenPort = uint16(listener.Addr().(*net.TCPAddr).Port)
	log.Infof("P2P server listening on %s", listener.Addr())

	spawn("NetAdapter.acceptLoop", na.acceptLoop)

	if len(na.cfg.Connect) > 0 {
		for _, address := range na.cfg.Connect {
			err := na.Connect(address)
			if err != nil {
				log.Warnf("Could not connect to %s: %s", address, err)
			}
		}
		return nil
	}
	na.connectToStoredAddresses()
	return nil
}

// connectToStoredAddresses dials random addresses remembered from previous
// runs and addr relays.
func (na *NetAdapter) connectToStoredAddresses() {
	if na.addressManager == nil {
		return
	}
	for _, address := range na.addressManager.RandomAddresses(targetOutboundPeers, nil) {
		err := na.Connect(address.TCPAddress().String())
		if err != nil {
			log.Warnf("Could not connect to stored address %s: %s",
				address.TCPAddress(), err)
		}
	}
}

// Stop closes the listener and every live connection. It is not possible to
// start the adapter again after stopping it.
func (na *NetAdapter) Stop() error {
	if !atomic.CompareAndSwapUint32(&na.stop, 0, 1) {
		return errors.New("net adapter stopped more than once")
	}
	err := na.listener.Close()

	na.sessionsLock.Lock()
	sessions := make([]*connection.Session, 0, len(na.sessions))
	for session := range na.sessions {
		sessions = append(sessions, session)
	}
	na.sessionsLock.Unlock()

	for _, session := range sessions {
		_ = session.NotifyConnectionClosed()
	}
	return errors.WithStack(err)
}

func (na *NetAdapter) acceptLoop() {
	for {
		conn, err := na.listener.Accept()
		if err != nil {
			if atomic.LoadUint32(&na.stop) != 0 {
				return
			}
			log.Warnf("Error accepting connection: %s", err)
			continue
		}
		err = na.onConnection(conn)
		if err != nil {
			log.Warnf("Could not start session for %s: %s",
				conn.RemoteAddr(), err)
			_ = conn.Close()
		}
	}
}

// Connect dials the given address and starts a session over the resulting
// connection.
func (na *NetAdapter) Connect(address string) error {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "error dialing %s", address)
	}
	err = na.onConnection(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	return nil
}

// onConnection builds the transport and session for a fresh connection and
// spawns its read loop.
func (na *NetAdapter) onConnection(conn net.Conn) error {
	localAddress, err := localNetAddress(conn.LocalAddr(), na.listenPort)
	if err != nil {
		return err
	}
	remoteAddress, err := netAddressFromConnAddr(conn.RemoteAddr())
	if err != nil {
		return err
	}

	transport := newTCPTransport(conn)
	sessionConfig := &connection.Config{
		Network:         na.cfg.NetParams().Net,
		ProtocolVersion: appmessage.ProtocolVersion,
		UserAgent:       na.userAgent(),
		DisableRelayTx:  na.cfg.BlocksOnly,
	}
	session := connection.New(sessionConfig, transport, na.registry,
		na, na.heights, na.decoder, localAddress, remoteAddress)
	transport.session = session

	err = session.Start()
	if err != nil {
		return err
	}
	na.trackSession(session)
	spawn("NetAdapter.readLoop", func() {
		na.readLoop(conn, session)
	})
	return nil
}

// OnHandshakeComplete implements connection.HandshakeListener. Every freshly
// established peer is asked for addresses it knows about.
func (na *NetAdapter) OnHandshakeComplete(peer *peerpkg.Peer) {
	log.Infof("New peer %s (%s)", peer, peer.UserAgent())

	na.sessionsLock.Lock()
	defer na.sessionsLock.Unlock()
	for session := range na.sessions {
		if session.Peer() == peer {
			err := session.EnqueueOutbound(appmessage.NewMsgGetAddresses())
			if err != nil {
				log.Debugf("Could not request addresses from %s: %s", peer, err)
			}
			return
		}
	}
}

// readLoop pumps bytes from the connection into the session until the
// connection dies.
func (na *NetAdapter) readLoop(conn net.Conn, session *connection.Session) {
	defer na.untrackSession(session)

	buffer := make([]byte, 1024*16)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			postErr := session.HandleBytes(chunk)
			if postErr != nil {
				return
			}
		}
		if err != nil {
			_ = session.NotifyConnectionClosed()
			return
		}
	}
}

func (na *NetAdapter) trackSession(session *connection.Session) {
	na.sessionsLock.Lock()
	defer na.sessionsLock.Unlock()
	na.sessions[session] = struct{}{}
}

func (na *NetAdapter) untrackSession(session *connection.Session) {
	na.sessionsLock.Lock()
	defer na.sessionsLock.Unlock()
	delete(na.sessions, session)
}

func (na *NetAdapter) userAgent() string {
	userAgent := version.UserAgent()
	if len(na.cfg.UserAgentComments) > 0 {
		userAgent = strings.TrimSuffix(userAgent, "/") +
			"(" + strings.Join(na.cfg.UserAgentComments, "; ") + ")/"
	}
	return userAgent
}

func netAddressFromConnAddr(addr net.Addr) (*appmessage.NetAddress, error) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, errors.Errorf("non-TCP address %s", addr)
	}
	return appmessage.NewNetAddress(tcpAddr, 0), nil
}

// localNetAddress builds the address a session advertises as its own in the
// version message. The local port of an outbound connection is ephemeral, so
// the listening port replaces it.
func localNetAddress(addr net.Addr, listenPort uint16) (*appmessage.NetAddress, error) {
	netAddress, err := netAddressFromConnAddr(addr)
	if err != nil {
		return nil, err
	}
	if listenPort != 0 {
		netAddress.Port = listenPort
	}
	return netAddress, nil
}
