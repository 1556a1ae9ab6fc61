//go:build !rawsync_disable_padding && (rawsync_enable_padding || !(amd64 || 386 || arm || mips || mipsle || wasm))

package opt

// PaddingMult_ scales cache-line padding between hot atomic words.
// Padding is enabled for arm64, s390x, ppc64, ppc64le, riscv64, loong64,
// mips64 and mips64le, or everywhere with -tags=rawsync_enable_padding.
const PaddingMult_ = 1
