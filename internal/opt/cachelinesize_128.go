//go:build rawsync_cachelinesize_128

package opt

// CacheLineSize_ is forced to 128 bytes by the rawsync_cachelinesize_128 tag,
// for targets whose line size differs from what x/sys/cpu assumes.
const CacheLineSize_ uintptr = 128
