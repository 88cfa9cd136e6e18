// Package netwait blocks until the host has a usable IP address.
package netwait

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// PollInterval is how often interfaces are re-examined.
const PollInterval = 500 * time.Millisecond

// ErrTimeout is returned when no address appears within the timeout.
var ErrTimeout = errors.New("timed out waiting for network")

// Interface is the subset of net.Interface the waiter inspects.
type Interface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// Lister enumerates interfaces. The default reads them from the OS.
type Lister func() ([]Interface, error)

// SystemInterfaces lists the host's interfaces with their addresses.
func SystemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(ifaces))
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{Name: ifc.Name, Flags: ifc.Flags, Addrs: addrs})
	}
	return out, nil
}

// Waiter polls for a configured address.
type Waiter struct {
	list     Lister
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Waiter. A nil lister uses SystemInterfaces.
func New(list Lister, logger *slog.Logger) *Waiter {
	if list == nil {
		list = SystemInterfaces
	}
	return &Waiter{list: list, interval: PollInterval, logger: logger}
}

// Wait returns the first unicast address on an interface that is up and
// not loopback. When iface is set only that interface counts. A zero
// timeout waits until ctx is done.
func (w *Waiter) Wait(ctx context.Context, iface string, timeout time.Duration) (net.IP, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	w.logger.Info("Waiting for network", "interface", iface, "timeout", timeout)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		ip, name, err := w.find(iface)
		if err != nil {
			w.logger.Debug("Interface scan failed", "error", err)
		}
		if ip != nil {
			w.logger.Info("Network ready", "interface", name, "address", ip.String())
			return ip, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Waiter) find(want string) (net.IP, string, error) {
	ifaces, err := w.list()
	if err != nil {
		return nil, "", err
	}
	for _, ifc := range ifaces {
		if want != "" && ifc.Name != want {
			continue
		}
		if ifc.Flags&net.FlagUp == 0 {
			continue
		}
		if want == "" && ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range ifc.Addrs {
			if ip := unicastIP(addr); ip != nil {
				return ip, ifc.Name, nil
			}
		}
	}
	return nil, "", nil
}

func unicastIP(addr net.Addr) net.IP {
	var ip net.IP
	switch a := addr.(type) {
	case *net.IPNet:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	default:
		return nil
	}
	// private ranges count as global unicast; link-local does not
	if ip.IsGlobalUnicast() {
		return ip
	}
	return nil
}

// Wait is a shorthand for New(nil, logger).Wait.
func Wait(ctx context.Context, iface string, timeout time.Duration, logger *slog.Logger) (net.IP, error) {
	return New(nil, logger).Wait(ctx, iface, timeout)
}
