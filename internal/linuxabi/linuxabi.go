// Package linuxabi holds no kernel logic of its own. It exists purely so
// golang.org/x/sys/unix's symbolic errno and syscall-number constants are
// one import away from defs, letting linuxabi_test.go cross-check every
// Err_t and SYS_* constant this kernel hand-transcribed from the rv64
// Linux ABI (§6) against the values the Go standard toolchain's own
// platform bindings agree on, instead of trusting the transcription alone.
package linuxabi
