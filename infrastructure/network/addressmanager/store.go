package addressmanager

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/infrastructure/db/ldb"
	"github.com/cygnusnet/cygnusd/util/binaryserializer"
	"github.com/pkg/errors"
)

var addressBucketPrefix = []byte("address/")

// addressStore keeps the known addresses in memory and mirrors every change
// into the database, so the address book survives restarts.
type addressStore struct {
	database  *ldb.LevelDB
	addresses map[addressKey]*appmessage.NetAddress
}

func newAddressStore(database *ldb.LevelDB) (*addressStore, error) {
	store := &addressStore{
		database:  database,
		addresses: map[addressKey]*appmessage.NetAddress{},
	}
	err := store.restore()
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (as *addressStore) restore() error {
	if as.database == nil {
		return nil
	}

	serializedAddresses, err := as.database.GetAllWithPrefix(addressBucketPrefix)
	if err != nil {
		return err
	}
	for _, serializedAddress := range serializedAddresses {
		netAddress, err := deserializeNetAddress(serializedAddress)
		if err != nil {
			return err
		}
		as.addresses[netAddressKey(netAddress)] = netAddress
	}
	log.Debugf("Restored %d addresses", len(as.addresses))
	return nil
}

func (as *addressStore) add(key addressKey, address *appmessage.NetAddress) error {
	if _, ok := as.addresses[key]; ok {
		return nil
	}
	as.addresses[key] = address

	if as.database == nil {
		return nil
	}
	serializedAddress, err := serializeNetAddress(address)
	if err != nil {
		return err
	}
	return as.database.Put(databaseKey(key), serializedAddress)
}

func (as *addressStore) remove(key addressKey) error {
	delete(as.addresses, key)

	if as.database == nil {
		return nil
	}
	return as.database.Delete(databaseKey(key))
}

func (as *addressStore) has(key addressKey) bool {
	_, ok := as.addresses[key]
	return ok
}

func (as *addressStore) count() int {
	return len(as.addresses)
}

func (as *addressStore) getAll() []*appmessage.NetAddress {
	addresses := make([]*appmessage.NetAddress, 0, len(as.addresses))
	for _, address := range as.addresses {
		addresses = append(addresses, address)
	}
	return addresses
}

func (as *addressStore) getAllWithout(exceptions []*appmessage.NetAddress) []*appmessage.NetAddress {
	exceptionKeys := make(map[addressKey]struct{}, len(exceptions))
	for _, exception := range exceptions {
		exceptionKeys[netAddressKey(exception)] = struct{}{}
	}

	addresses := make([]*appmessage.NetAddress, 0, len(as.addresses))
	for key, address := range as.addresses {
		if _, ok := exceptionKeys[key]; !ok {
			addresses = append(addresses, address)
		}
	}
	return addresses
}

func databaseKey(key addressKey) []byte {
	buffer := &bytes.Buffer{}
	buffer.Write(addressBucketPrefix)
	buffer.Write(key.address[:])
	_ = binaryserializer.PutUint16(buffer, key.port)
	return buffer.Bytes()
}

func serializeNetAddress(netAddress *appmessage.NetAddress) ([]byte, error) {
	buffer := &bytes.Buffer{}
	err := binaryserializer.PutUint64(buffer, uint64(netAddress.Timestamp.Unix()))
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(buffer, uint64(netAddress.Services))
	if err != nil {
		return nil, err
	}
	_, err = buffer.Write(netAddress.IP.To16())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	err = binaryserializer.PutUint16(buffer, netAddress.Port)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func deserializeNetAddress(serializedAddress []byte) (*appmessage.NetAddress, error) {
	reader := bytes.NewReader(serializedAddress)

	timestamp, err := binaryserializer.Uint64(reader)
	if err != nil {
		return nil, err
	}
	services, err := binaryserializer.Uint64(reader)
	if err != nil {
		return nil, err
	}
	ip := make(net.IP, net.IPv6len)
	_, err = io.ReadFull(reader, ip)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	port, err := binaryserializer.Uint16(reader)
	if err != nil {
		return nil, err
	}

	return &appmessage.NetAddress{
		Timestamp: time.Unix(int64(timestamp), 0),
		Services:  appmessage.ServiceFlag(services),
		IP:        ip,
		Port:      port,
	}, nil
}
