package connection

import (
	"testing"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/util/bloom"
)

func txInv(b byte) *appmessage.InvVect {
	var hash appmessage.Hash
	hash[0] = b
	return appmessage.NewInvVect(appmessage.InvTypeTx, hash)
}

func blockInv(b byte) *appmessage.InvVect {
	var hash appmessage.Hash
	hash[0] = b
	return appmessage.NewInvVect(appmessage.InvTypeBlock, hash)
}

func (ts *testSession) relay(t *testing.T, invVect *appmessage.InvVect) {
	t.Helper()
	if err := ts.session.considerRelay(invVect); err != nil {
		t.Fatalf("considerRelay: %v", err)
	}
}

func (ts *testSession) countInvSends() int {
	count := 0
	for _, command := range ts.transport.sentCommands() {
		if command == appmessage.CmdInv {
			count++
		}
	}
	return count
}

func TestRelayBeforeHandshakeIsDropped(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)

	ts.relay(t, txInv(1))
	if len(ts.session.highQueue)+len(ts.session.lowQueue) != 0 {
		t.Fatalf("inventory queued before the handshake completed")
	}
}

func TestRelayDeclined(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)

	version := ts.remoteVersion(777)
	version.DisableRelayTx = true
	if err := ts.deliver(t, version); err != nil {
		t.Fatalf("delivering version: %v", err)
	}
	if err := ts.deliver(t, appmessage.NewMsgVerAck()); err != nil {
		t.Fatalf("delivering verack: %v", err)
	}

	ts.relay(t, txInv(1))
	ts.relay(t, blockInv(2))
	if got := ts.countInvSends(); got != 0 {
		t.Fatalf("relayed %d items to a peer that declined relay", got)
	}
}

func TestRelayWithoutFilterRelaysEverything(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	ts.relay(t, txInv(1))
	ts.ack(t)
	ts.relay(t, blockInv(2))
	ts.ack(t)

	if got := ts.countInvSends(); got != 2 {
		t.Fatalf("relayed %d items, want 2 with no filter installed", got)
	}
}

func TestRelayFilterExcludesTransactions(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	matching := txInv(1)
	excluded := txInv(2)

	filter := bloom.NewFilter(10, 0, 0.000001, appmessage.BloomUpdateNone)
	filter.Add(matching.Hash[:])
	ts.session.InstallFilter(filter.MsgFilterLoad())

	ts.relay(t, excluded)
	if got := ts.countInvSends(); got != 0 {
		t.Fatalf("relayed a transaction the filter excludes")
	}

	ts.relay(t, matching)
	ts.ack(t)
	if got := ts.countInvSends(); got != 1 {
		t.Fatalf("relayed %d items, want the matching transaction", got)
	}

	// Block inventory is not subject to the transaction filter.
	ts.relay(t, blockInv(3))
	ts.ack(t)
	if got := ts.countInvSends(); got != 2 {
		t.Fatalf("relayed %d items, want the block to pass the filter", got)
	}

	// Clearing the filter readmits everything.
	ts.session.ClearFilter()
	ts.relay(t, txInv(4))
	ts.ack(t)
	if got := ts.countInvSends(); got != 3 {
		t.Fatalf("relayed %d items, want everything after filterclear", got)
	}
}

func TestRelayFilterAddSwapsSnapshot(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	late := txInv(9)

	filter := bloom.NewFilter(10, 0, 0.000001, appmessage.BloomUpdateNone)
	ts.session.InstallFilter(filter.MsgFilterLoad())
	installed := ts.session.filter

	if err := ts.session.AddFilterData(late.Hash[:]); err != nil {
		t.Fatalf("AddFilterData: %v", err)
	}
	if ts.session.filter == installed {
		t.Fatalf("filteradd mutated the installed snapshot instead of replacing it")
	}

	ts.relay(t, late)
	ts.ack(t)
	if got := ts.countInvSends(); got != 1 {
		t.Fatalf("relayed %d items, want the filteradd element to match", got)
	}
}

func TestFilterAddWithoutFilterIsAViolation(t *testing.T) {
	ts := newTestSession(t, "10.1.1.1")
	ts.startSync(t)
	ts.establish(t, 777)

	if err := ts.session.AddFilterData([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error for filteradd with no installed filter")
	}
}
