package meta

import "sync"

//nolint:gochecknoglobals // process-wide service identity
var (
	service     ServiceInfo
	serviceOnce sync.Once
)

// ServiceInfo identifies the running binary in logs and error responses.
type ServiceInfo struct {
	Name    string
	Version string
}

// SetServiceInfo sets the global service name and version.
// Only the first call has an effect.
func SetServiceInfo(name, version string) {
	serviceOnce.Do(func() {
		service = ServiceInfo{Name: name, Version: version}
	})
}

// Service returns the global service identity.
func Service() ServiceInfo {
	return service
}
