package netadapter

import (
	"net"
	"sync/atomic"

	"github.com/cygnusnet/cygnusd/app/protocol/connection"
	"github.com/pkg/errors"
)

// tcpTransport adapts a net.Conn to the connection.Transport interface. The
// session serializes sends through its flow control gate, so at most one
// Send is in progress at a time; the acknowledgment is posted once the write
// lands in the kernel buffer.
type tcpTransport struct {
	conn    net.Conn
	session *connection.Session
	closed  uint32
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{conn: conn}
}

// Send writes one serialized message to the connection and acknowledges it
// to the session.
func (t *tcpTransport) Send(data []byte) error {
	_, err := t.conn.Write(data)
	if err != nil {
		return errors.Wrapf(err, "error writing to %s", t.conn.RemoteAddr())
	}
	spawn("tcpTransport.ackSend", func() {
		_ = t.session.NotifySendComplete()
	})
	return nil
}

// Abort closes the underlying connection, which also unblocks the session's
// read loop.
func (t *tcpTransport) Abort() {
	if !atomic.CompareAndSwapUint32(&t.closed, 0, 1) {
		return
	}
	_ = t.conn.Close()
}
