package instance

import (
	"os"

	"github.com/bistrohub/ordering/pkg/env"
)

// GetID returns the process instance identifier used in startup logs. It
// prefers an explicit id, then the platform dyno name, then the hostname.
func GetID() string {
	if id := env.Get("BISTRO_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
