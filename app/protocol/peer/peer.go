package peer

import (
	"sync/atomic"
	"time"

	"github.com/cygnusnet/cygnusd/app/appmessage"
)

// Peer holds the information a session learns about its remote peer during
// the version handshake. The fields set by UpdateFieldsFromVersionMessage are
// written once, before the peer is added to the registry or handed to
// anything outside the session goroutine, and are read-only afterwards.
type Peer struct {
	handshakeComplete uint32

	localAddress  *appmessage.NetAddress
	remoteAddress *appmessage.NetAddress

	nonce              uint64
	userAgent          string
	services           appmessage.ServiceFlag
	advertisedProtoVer int32
	protocolVersion    uint32 // negotiated protocol version
	startHeight        int32
	disableRelayTx     bool
	timeOffset         time.Duration
}

// New returns a new Peer for a connection with the given local and remote
// addresses.
func New(localAddress, remoteAddress *appmessage.NetAddress) *Peer {
	return &Peer{
		localAddress:    localAddress,
		remoteAddress:   remoteAddress,
		protocolVersion: appmessage.ProtocolVersion,
	}
}

// UpdateFieldsFromVersionMessage fills the peer with the details the remote
// peer advertised in its version message.
func (p *Peer) UpdateFieldsFromVersionMessage(msg *appmessage.MsgVersion) {
	// Negotiate the protocol version.
	p.advertisedProtoVer = msg.ProtocolVersion
	if p.advertisedProtoVer >= 0 && uint32(p.advertisedProtoVer) < p.protocolVersion {
		p.protocolVersion = uint32(p.advertisedProtoVer)
	}

	p.nonce = msg.Nonce
	p.userAgent = msg.UserAgent
	p.services = msg.Services
	p.startHeight = msg.StartHeight
	p.disableRelayTx = msg.DisableRelayTx
	p.timeOffset = time.Since(msg.Timestamp)

	log.Debugf("Negotiated protocol version %d for peer %s",
		p.protocolVersion, p)
}

// MarkHandshakeComplete marks the handshake with this peer as completed.
func (p *Peer) MarkHandshakeComplete() {
	atomic.StoreUint32(&p.handshakeComplete, 1)
}

// HandshakeComplete returns whether the version handshake with this peer has
// completed.
func (p *Peer) HandshakeComplete() bool {
	return atomic.LoadUint32(&p.handshakeComplete) != 0
}

// LocalAddress returns the local address of the connection with this peer.
func (p *Peer) LocalAddress() *appmessage.NetAddress {
	return p.localAddress
}

// RemoteAddress returns the address of this peer.
func (p *Peer) RemoteAddress() *appmessage.NetAddress {
	return p.remoteAddress
}

// Nonce returns the nonce the peer sent in its version message.
func (p *Peer) Nonce() uint64 {
	return p.nonce
}

// UserAgent returns the peer's user agent.
func (p *Peer) UserAgent() string {
	return p.userAgent
}

// Services returns the services the peer advertised.
func (p *Peer) Services() appmessage.ServiceFlag {
	return p.services
}

// ProtocolVersion returns the protocol version negotiated with the peer.
func (p *Peer) ProtocolVersion() uint32 {
	return p.protocolVersion
}

// StartHeight returns the chain height the peer advertised in its version
// message.
func (p *Peer) StartHeight() int32 {
	return p.startHeight
}

// DisableRelayTx returns whether the peer asked not to be sent transaction
// inventory until it installs a filter.
func (p *Peer) DisableRelayTx() bool {
	return p.disableRelayTx
}

// TimeOffset returns the difference between the local clock and the peer's
// clock at version time.
func (p *Peer) TimeOffset() time.Duration {
	return p.timeOffset
}

func (p *Peer) String() string {
	if p.remoteAddress == nil {
		return "<unknown>"
	}
	return p.remoteAddress.TCPAddress().String()
}
