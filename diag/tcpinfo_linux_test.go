//go:build linux

package diag

import (
	"net"
	"testing"
)

func TestReadTCPInfoOnRealLoopbackSocket(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	server := <-accepted
	defer server.Close()

	info, err := ReadTCPInfo(client)
	if err != nil {
		t.Fatalf("ReadTCPInfo: %v", err)
	}
	if info.State == 0 {
		t.Fatal("expected a non-zero TCP state for an established connection")
	}
}
