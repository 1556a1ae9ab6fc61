//go:build rawsync_cachelinesize_64

package opt

// CacheLineSize_ is forced to 64 bytes by the rawsync_cachelinesize_64 tag,
// for targets whose line size differs from what x/sys/cpu assumes.
const CacheLineSize_ uintptr = 64
