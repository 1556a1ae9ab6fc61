//go:build rawsync_disable_padding || (!rawsync_enable_padding && (amd64 || 386 || arm || mips || mipsle || wasm))

package opt

// PaddingMult_ scales cache-line padding between hot atomic words.
// Padding is disabled by default for:
//   - amd64 (x86_64): Hardware optimizations often make padding less critical
//   - 32-bit architectures (386, arm, mips, mipsle, wasm): Smaller cache lines/memory constraints
//
// Use -tags=rawsync_disable_padding to disable it everywhere.
const PaddingMult_ = 0
