//go:build !linux

package harness

// threadID is not available on this platform.
func threadID() int { return 0 }
