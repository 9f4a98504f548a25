// Package env holds the few environment lookups that sit outside the
// envconfig-managed configuration, such as platform-injected variables.
package env

import (
	"os"
	"strings"
)

// Get returns the named variable with surrounding whitespace trimmed, or the
// fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
