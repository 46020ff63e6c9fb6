//go:build linux

package diag

import (
	"fmt"
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"
)

// ReadTCPInfo reads the live TCP_INFO socket statistics for conn's
// underlying file descriptor. Best-effort: callers should treat a
// non-nil error as "diagnostics unavailable", not a connection fault.
func ReadTCPInfo(conn net.Conn) (TCPInfo, error) {
	fd := netfd.GetFdFromConn(conn)
	raw, err := unix.GetsockoptTCPInfo(fd, unix.SOL_TCP, unix.TCP_INFO)
	if err != nil {
		return TCPInfo{}, fmt.Errorf("diag: getsockopt TCP_INFO: %w", err)
	}
	return TCPInfo{
		RTTMicros:            raw.Rtt,
		RTTVarMicros:         raw.Rttvar,
		Retransmits:          raw.Retransmits,
		TotalRetransmits:     raw.Total_retrans,
		SendCongestionWindow: raw.Snd_cwnd,
		State:                raw.State,
	}, nil
}
