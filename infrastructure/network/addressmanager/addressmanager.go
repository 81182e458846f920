package addressmanager

import (
	"net"
	"sync"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/infrastructure/db/ldb"
	"github.com/pkg/errors"
)

// maxAddresses is the maximum number of addresses the manager holds. Beyond
// it, the oldest known address is evicted.
const maxAddresses = 4096

// addressRandomizer is the interface for the randomizer needed for the AddressManager.
type addressRandomizer interface {
	RandomAddresses(addresses []*appmessage.NetAddress, count int) []*appmessage.NetAddress
}

// addressKey represents a pair of IP and port, the IP is always in V6 representation
type addressKey struct {
	port    uint16
	address ipv6
}

type ipv6 [net.IPv6len]byte

// ErrAddressNotFound is an error returned from some functions when a
// given address is not found in the address manager
var ErrAddressNotFound = errors.New("address not found")

// netAddressKey returns a key of the ip address to use it in maps.
func netAddressKey(netAddress *appmessage.NetAddress) addressKey {
	key := addressKey{port: netAddress.Port}
	// all IPv4 can be represented as IPv6.
	copy(key.address[:], netAddress.IP.To16())
	return key
}

// AddressManager provides a concurrency safe address manager for caching
// potential peers on the cygnus network. Addresses survive restarts through
// the given database.
type AddressManager struct {
	store  *addressStore
	mutex  sync.Mutex
	random addressRandomizer
}

// New returns a new cygnus address manager backed by database.
func New(database *ldb.LevelDB) (*AddressManager, error) {
	store, err := newAddressStore(database)
	if err != nil {
		return nil, err
	}
	return &AddressManager{
		store:  store,
		random: NewAddressRandomize(),
	}, nil
}

func (am *AddressManager) addAddressNoLock(netAddress *appmessage.NetAddress) error {
	if netAddress.IP.To16() == nil {
		return nil
	}

	key := netAddressKey(netAddress)
	err := am.store.add(key, netAddress)
	if err != nil {
		return err
	}

	if am.store.count() > maxAddresses {
		allAddresses := am.store.getAll()

		oldest := allAddresses[0]
		for _, address := range allAddresses[1:] {
			if address.Timestamp.Before(oldest.Timestamp) {
				oldest = address
			}
		}
		return am.store.remove(netAddressKey(oldest))
	}
	return nil
}

// AddAddress adds address to the address manager
func (am *AddressManager) AddAddress(address *appmessage.NetAddress) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	return am.addAddressNoLock(address)
}

// AddAddresses adds addresses to the address manager
func (am *AddressManager) AddAddresses(addresses ...*appmessage.NetAddress) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	for _, address := range addresses {
		err := am.addAddressNoLock(address)
		if err != nil {
			return err
		}
	}
	return nil
}

// RemoveAddress removes addresses from the address manager
func (am *AddressManager) RemoveAddress(address *appmessage.NetAddress) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	return am.store.remove(netAddressKey(address))
}

// HasAddress returns whether the given address is known to the manager.
func (am *AddressManager) HasAddress(address *appmessage.NetAddress) bool {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	return am.store.has(netAddressKey(address))
}

// Addresses returns all addresses
func (am *AddressManager) Addresses() []*appmessage.NetAddress {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	return am.store.getAll()
}

func (am *AddressManager) addressesWithout(exceptions []*appmessage.NetAddress) []*appmessage.NetAddress {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	return am.store.getAllWithout(exceptions)
}

// RandomAddresses returns count addresses at random that aren't in exceptions
func (am *AddressManager) RandomAddresses(count int, exceptions []*appmessage.NetAddress) []*appmessage.NetAddress {
	validAddresses := am.addressesWithout(exceptions)
	return am.random.RandomAddresses(validAddresses, count)
}

// OnAddresses consumes addresses a session learned from a peer's addr
// message. It satisfies the session's address listener interface, so an
// AddressManager can be plugged straight into the default payload decoder.
func (am *AddressManager) OnAddresses(addresses []*appmessage.NetAddress) {
	err := am.AddAddresses(addresses...)
	if err != nil {
		log.Errorf("Failed to add relayed addresses: %s", err)
	}
}
