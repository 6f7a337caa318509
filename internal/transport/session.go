// Package transport manages the single TCP connection shared by the
// Simulator and the Hardware: connect on the Simulator side, bind/listen/
// accept on the Hardware side, with Nagle disabled on both ends because
// the workload is small, latency-dominated messages.
package transport

import (
	"fmt"
	"net"

	"hilsim/internal/hilerr"
)

// Dial connects to the Hardware peer at host:port with blocking
// semantics and disables Nagle on the resulting connection. There is no
// retry: a failed dial is fatal to the Simulator.
func Dial(host string, port int) (*net.TCPConn, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w: %v", addr, hilerr.ErrConnect, err)
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil, fmt.Errorf("dial %s: connection is not TCP: %w", addr, hilerr.ErrConnect)
	}

	if err := tcpConn.SetNoDelay(true); err != nil {
		return nil, fmt.Errorf("disable Nagle on %s: %w: %v", addr, hilerr.ErrConnect, err)
	}

	return tcpConn, nil
}

// Listener binds and listens for exactly one Simulator connection.
type Listener struct {
	ln net.Listener
}

// Listen binds to host:port. Go's net.Listen does not expose a backlog
// parameter the way the original's raw socket.listen(1) does; this is a
// documented platform limitation (see SPEC_FULL.md §9), not a behavioral
// change, since AcceptOnce only ever calls Accept once regardless.
func Listen(host string, port int) (*Listener, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w: %v", addr, hilerr.ErrBind, err)
	}

	return &Listener{ln: ln}, nil
}

// AcceptOnce accepts exactly one peer, disables Nagle on it, and closes
// the listener — the Hardware's connection lifetime is a single accepted
// peer with no re-accept.
func (l *Listener) AcceptOnce() (*net.TCPConn, error) {
	defer l.ln.Close()

	conn, err := l.ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept: %w: %v", hilerr.ErrAccept, err)
	}

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("accepted connection is not TCP: %w", hilerr.ErrAccept)
	}

	if err := tcpConn.SetNoDelay(true); err != nil {
		tcpConn.Close()
		return nil, fmt.Errorf("disable Nagle: %w: %v", hilerr.ErrAccept, err)
	}

	return tcpConn, nil
}

// Close releases the listener without accepting, used when startup fails
// before a peer connects.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the listener's bound address, primarily useful in tests
// that bind to port 0 and need to discover the assigned port.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}
