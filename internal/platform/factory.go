package platform

import (
	"runtime"

	"go.uber.org/zap"
)

// NewEnvironment creates the environment for the current runtime. An explicit
// override ("web" or "native") wins; otherwise the js build target selects
// the web environment and everything else is native.
func NewEnvironment(override, dataDir string, logger *zap.Logger) (Environment, error) {
	name := override
	if name == "" {
		if runtime.GOOS == "js" {
			name = "web"
		} else {
			name = "native"
		}
	}

	switch name {
	case "web":
		return newWebEnvironment(dataDir, logger), nil
	case "native":
		return newNativeEnvironment(dataDir, logger), nil
	default:
		return nil, &UnsupportedRuntimeError{Name: name}
	}
}

// UnsupportedRuntimeError represents an error for unknown runtime overrides.
type UnsupportedRuntimeError struct {
	Name string
}

func (e *UnsupportedRuntimeError) Error() string {
	return "unsupported runtime: " + e.Name
}
