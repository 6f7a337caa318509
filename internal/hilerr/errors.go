// Package hilerr enumerates the distinct error kinds the co-simulation
// runtime can fail with. Each kind is a sentinel; call sites wrap it with
// fmt.Errorf("...: %w", kind) so errors.Is still matches the kind while the
// message carries the local detail.
package hilerr

import "errors"

var (
	// ErrConfig marks a malformed or missing required configuration value.
	ErrConfig = errors.New("config error")

	// ErrConnect marks a failure to dial the Hardware peer.
	ErrConnect = errors.New("connect error")

	// ErrBind marks a failure to bind the Hardware's listening socket.
	ErrBind = errors.New("bind error")

	// ErrAccept marks a failure to accept the Simulator's connection.
	ErrAccept = errors.New("accept error")

	// ErrShortRead marks a stream that ended before a full frame arrived.
	ErrShortRead = errors.New("short read")

	// ErrBadMagic marks a frame whose magic number did not match.
	ErrBadMagic = errors.New("bad magic")

	// ErrDecode marks a frame whose payload failed to parse.
	ErrDecode = errors.New("decode error")

	// ErrEncode marks a record that could not be framed for the wire.
	ErrEncode = errors.New("encode error")

	// ErrSend marks a failure writing a frame to the connection.
	ErrSend = errors.New("send error")
)
