package transport_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"hilsim/internal/transport"
)

func TestListenAndDial(t *testing.T) {
	ln, err := transport.Listen("127.0.0.1", 0)
	require.NoError(t, err)

	addr := ln.Addr()
	require.NotNil(t, addr)

	port := addr.(*net.TCPAddr).Port

	accepted := make(chan *net.TCPConn, 1)
	acceptErr := make(chan error, 1)
	go func() {
		conn, err := ln.AcceptOnce()
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- conn
	}()

	client, err := transport.Dial("127.0.0.1", port)
	require.NoError(t, err)
	defer client.Close()

	select {
	case conn := <-accepted:
		defer conn.Close()
	case err := <-acceptErr:
		t.Fatalf("accept failed: %v", err)
	}
}

func TestDialFailsWithoutListener(t *testing.T) {
	_, err := transport.Dial("127.0.0.1", 1)
	require.Error(t, err)
}
