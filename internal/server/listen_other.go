//go:build !linux

package server

import (
	"fmt"
	"net"
)

// listen falls back to the standard listener; the backlog is left to the OS.
func listen(addr string, _ int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}
