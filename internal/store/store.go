// Package store provides durable key/value persistence for interview sessions.
//
// Values are opaque text. Structured values are encoded by the session package.
package store

import "slices"

// Keys that outlive a session. Reset keeps exactly these.
const (
	KeyCredential = "credential"
	KeyTheme      = "theme"
)

// PreservedKeys returns the keys Reset keeps.
func PreservedKeys() []string {
	return []string{KeyCredential, KeyTheme}
}

// IsPreserved reports whether key survives Reset.
func IsPreserved(key string) bool {
	return slices.Contains(PreservedKeys(), key)
}

// Store is the persistence contract shared by every backend.
//
// Get never fails: a missing key, or one the backend cannot read, is reported as absent.
// Writes are last-write-wins and never leave a partially written value visible.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string) error
	Remove(key string) error
	// Reset removes every key except the credential and theme.
	Reset() error
}
