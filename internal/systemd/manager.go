// Package systemd talks to the service manager: unit status over D-Bus
// and readiness notifications over the notify socket.
package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Manager reads unit state from systemd via D-Bus.
type Manager struct {
	conn *dbus.Conn
}

// NewManager connects to the system bus. blinknode runs as a system
// service, so its own unit lives there.
func NewManager(ctx context.Context) (*Manager, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &Manager{conn: conn}, nil
}

// GetServiceStatus retrieves the ActiveState property of a unit.
func (m *Manager) GetServiceStatus(ctx context.Context, unit string) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return "", fmt.Errorf("get %s ActiveState: %w", unit, err)
	}
	return unquote(prop.Value.String()), nil
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}

// unquote strips the quotes godbus puts around string variants.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
