package peer

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrPeerAlreadyRegistered is returned by Registry.Add when the given peer
// handle is already registered.
var ErrPeerAlreadyRegistered = errors.New("peer already registered")

// ErrPeerWithSameNonceExists is returned by Registry.Add when another peer
// from the same remote address already advertised the same nonce.
var ErrPeerWithSameNonceExists = errors.New("a peer from the same address with the same nonce already exists")

// Registry is a concurrent set of the peers currently connected to this node.
// A session registers its peer only once the remote version message has
// arrived and the peer's fields are final, and removes it on teardown.
type Registry struct {
	mutex sync.RWMutex
	peers map[*Peer]struct{}
}

// NewRegistry returns a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[*Peer]struct{}),
	}
}

// Add inserts the given peer into the registry. It fails with
// ErrPeerWithSameNonceExists when a registered peer from the same remote
// address advertises the same nonce. The duplicate scan and the insert
// happen under one lock, so two racing sessions cannot both get in.
func (r *Registry) Add(peer *Peer) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.peers[peer]; ok {
		return errors.Wrapf(ErrPeerAlreadyRegistered, "peer %s", peer)
	}
	remoteIP := peer.RemoteAddress().IP
	for other := range r.peers {
		if other.RemoteAddress().IP.Equal(remoteIP) && other.Nonce() == peer.Nonce() {
			return errors.Wrapf(ErrPeerWithSameNonceExists,
				"peer %s with nonce %d", peer, peer.Nonce())
		}
	}
	r.peers[peer] = struct{}{}
	return nil
}

// Remove deletes the given peer from the registry. Removing a peer that is
// not registered is a no-op.
func (r *Registry) Remove(peer *Peer) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.peers, peer)
}

// Peers returns the currently registered peers.
func (r *Registry) Peers() []*Peer {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	peers := make([]*Peer, 0, len(r.peers))
	for peer := range r.peers {
		peers = append(peers, peer)
	}
	return peers
}

// Count returns the number of registered peers.
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.peers)
}
