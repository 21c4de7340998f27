//go:build linux

package harness

import "golang.org/x/sys/unix"

// threadID returns the kernel id of the calling thread.
func threadID() int { return unix.Gettid() }
