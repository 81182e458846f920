package netadapter

import (
	"net"
	"testing"
	"time"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/infrastructure/config"
	"github.com/cygnusnet/cygnusd/infrastructure/network/addressmanager"
)

type zeroHeights struct{}

func (zeroHeights) SelectedTipHeight() int32 {
	return 0
}

func testConfig() *config.Config {
	return &config.Config{
		Flags: &config.Flags{
			Listen: "127.0.0.1:0",
			NetworkFlags: config.NetworkFlags{
				Simnet:          true,
				ActiveNetParams: &config.SimnetParams,
			},
		},
	}
}

func waitForCondition(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLocalNetAddressAdvertisesListenPort(t *testing.T) {
	connAddr := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 54321}

	// An outbound connection's local port is ephemeral. The advertised
	// address must carry the listening port instead.
	address, err := localNetAddress(connAddr, 16111)
	if err != nil {
		t.Fatalf("localNetAddress: %v", err)
	}
	if address.Port != 16111 {
		t.Errorf("advertised port: got %d, want 16111", address.Port)
	}
	if !address.IP.Equal(connAddr.IP) {
		t.Errorf("advertised IP: got %s, want %s", address.IP, connAddr.IP)
	}

	// Without a listening port the connection's own port stands.
	address, err = localNetAddress(connAddr, 0)
	if err != nil {
		t.Fatalf("localNetAddress: %v", err)
	}
	if address.Port != 54321 {
		t.Errorf("advertised port: got %d, want 54321", address.Port)
	}

	_, err = localNetAddress(&net.UnixAddr{Name: "socket", Net: "unix"}, 16111)
	if err == nil {
		t.Errorf("localNetAddress: expected an error for a non-TCP address")
	}
}

func TestConnectToStoredAddresses(t *testing.T) {
	server := New(testConfig(), nil, zeroHeights{}, nil)
	if err := server.Start(); err != nil {
		t.Fatalf("Start (server): %v", err)
	}
	defer server.Stop()

	serverAddress := server.listener.Addr().(*net.TCPAddr)

	// The client is given no --connect peers, only an address book that
	// remembers the server.
	clientAddresses, err := addressmanager.New(nil)
	if err != nil {
		t.Fatalf("addressmanager.New: %v", err)
	}
	err = clientAddresses.AddAddress(appmessage.NewNetAddress(serverAddress, appmessage.SFNodeNetwork))
	if err != nil {
		t.Fatalf("AddAddress: %v", err)
	}

	client := New(testConfig(), clientAddresses, zeroHeights{}, nil)
	if err := client.Start(); err != nil {
		t.Fatalf("Start (client): %v", err)
	}
	defer client.Stop()

	waitForCondition(t, "the stored-address handshake", func() bool {
		return client.Registry().Count() == 1 && server.Registry().Count() == 1
	})

	// The client's peer advertised its listening port rather than the
	// ephemeral port of the dialed connection.
	clientPeer := client.Registry().Peers()[0]
	if clientPeer.LocalAddress().Port != client.listenPort {
		t.Errorf("advertised local port: got %d, want the listening port %d",
			clientPeer.LocalAddress().Port, client.listenPort)
	}
}
