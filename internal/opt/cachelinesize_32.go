//go:build rawsync_cachelinesize_32

package opt

// CacheLineSize_ is forced to 32 bytes by the rawsync_cachelinesize_32 tag,
// for targets whose line size differs from what x/sys/cpu assumes.
const CacheLineSize_ uintptr = 32
