//go:build !linux

package diag

import (
	"errors"
	"net"
)

// ErrTCPInfoUnsupported is returned by ReadTCPInfo on platforms without a
// TCP_INFO reader.
var ErrTCPInfoUnsupported = errors.New("diag: TCP_INFO not supported on this platform")

// ReadTCPInfo always fails on non-Linux platforms; diagnostics degrade to
// capabilities and cleanup-queue depth only.
func ReadTCPInfo(conn net.Conn) (TCPInfo, error) {
	return TCPInfo{}, ErrTCPInfoUnsupported
}
