//go:build rawsync_cachelinesize_256

package opt

// CacheLineSize_ is forced to 256 bytes by the rawsync_cachelinesize_256 tag,
// for targets whose line size differs from what x/sys/cpu assumes.
const CacheLineSize_ uintptr = 256
