package device

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

// Manager resolves a stable identifier for this device. The id is attached to
// every backend request so sessions can be correlated server-side.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// GetOrGenerateDeviceID returns the configured id when present, otherwise a
// machine-derived id, otherwise a fresh UUID.
func (m *Manager) GetOrGenerateDeviceID(existingID string) (string, error) {
	if existingID != "" {
		return existingID, nil
	}

	if id := machineID(); id != "" {
		return id, nil
	}

	return uuid.New().String(), nil
}

func machineID() string {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
			return strings.TrimSpace(string(data))
		}
	}

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}

	return ""
}
